package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/domain/repository"
	"MacroPulse/pkg/util"
)

// CSVEventRegistry loads the scheduled release table from disk once and
// serves it read-only. Files are CSV with a header row:
//
//	releases: date,actual,forecast
//	policy:   date,label
//
// Dates must be strictly increasing; a duplicate or out-of-order date is
// a configuration error, not something to silently reorder.
type CSVEventRegistry struct {
	events []models.MacroEvent
	policy []models.PolicyEvent
}

func NewCSVEventRegistry(registryPath, policyPath string) (*CSVEventRegistry, error) {
	events, err := loadReleases(registryPath)
	if err != nil {
		return nil, err
	}

	var policy []models.PolicyEvent
	if policyPath != "" {
		policy, err = loadPolicy(policyPath)
		if err != nil {
			return nil, err
		}
	}

	return &CSVEventRegistry{events: events, policy: policy}, nil
}

var _ repository.EventRegistry = (*CSVEventRegistry)(nil)

func (r *CSVEventRegistry) Events() []models.MacroEvent {
	return r.events
}

func (r *CSVEventRegistry) PolicyEvents() []models.PolicyEvent {
	return r.policy
}

// Lookup finds the event released exactly on date (day precision, UTC).
func (r *CSVEventRegistry) Lookup(date time.Time) (models.MacroEvent, bool) {
	day := util.TruncateToDay(date)
	idx := sort.Search(len(r.events), func(i int) bool {
		return !util.TruncateToDay(r.events[i].Date).Before(day)
	})
	if idx < len(r.events) && util.TruncateToDay(r.events[idx].Date).Equal(day) {
		return r.events[idx], true
	}
	return models.MacroEvent{}, false
}

func loadReleases(path string) ([]models.MacroEvent, error) {
	rows, err := readCSV(path, 3)
	if err != nil {
		return nil, err
	}

	events := make([]models.MacroEvent, 0, len(rows))
	var prev time.Time
	for i, row := range rows {
		date, ok := util.ParseTime(row[0])
		if !ok {
			return nil, fmt.Errorf("%w: %s row %d: bad date %q", models.ErrBadConfig, path, i+2, row[0])
		}
		date = date.UTC()
		if i > 0 && !date.After(prev) {
			return nil, fmt.Errorf("%w: %s row %d: dates must be strictly increasing (%s after %s)",
				models.ErrBadConfig, path, i+2, date.Format(util.DateOnly), prev.Format(util.DateOnly))
		}
		prev = date

		actual, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: bad actual %q", models.ErrBadConfig, path, i+2, row[1])
		}
		forecast, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: bad forecast %q", models.ErrBadConfig, path, i+2, row[2])
		}
		events = append(events, models.MacroEvent{Date: date, Actual: actual, Forecast: forecast})
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %s: no events", models.ErrBadConfig, path)
	}
	return events, nil
}

func loadPolicy(path string) ([]models.PolicyEvent, error) {
	rows, err := readCSV(path, 2)
	if err != nil {
		return nil, err
	}

	events := make([]models.PolicyEvent, 0, len(rows))
	var prev time.Time
	for i, row := range rows {
		date, ok := util.ParseTime(row[0])
		if !ok {
			return nil, fmt.Errorf("%w: %s row %d: bad date %q", models.ErrBadConfig, path, i+2, row[0])
		}
		date = date.UTC()
		if i > 0 && !date.After(prev) {
			return nil, fmt.Errorf("%w: %s row %d: dates must be strictly increasing", models.ErrBadConfig, path, i+2)
		}
		prev = date
		events = append(events, models.PolicyEvent{Date: date, Label: row[1]})
	}
	return events, nil
}

func readCSV(path string, wantCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", models.ErrBadConfig, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = wantCols

	// header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("%w: %s: missing header: %v", models.ErrBadConfig, path, err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrBadConfig, path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
