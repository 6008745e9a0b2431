package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MacroPulse/internal/domain/models"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVEventRegistryLoads(t *testing.T) {
	path := writeFile(t, "cpi.csv", "date,actual,forecast\n2024-01-12,5.69,5.3\n2024-02-12,5.10,5.2\n")

	reg, err := NewCSVEventRegistry(path, "")
	require.NoError(t, err)

	events := reg.Events()
	require.Len(t, events, 2)
	require.Equal(t, 5.69, events[0].Actual)
	require.InDelta(t, 0.39, events[0].Surprise(), 1e-9)

	ev, ok := reg.Lookup(time.Date(2024, 2, 12, 15, 0, 0, 0, time.UTC))
	require.True(t, ok)
	require.Equal(t, 5.10, ev.Actual)

	_, ok = reg.Lookup(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.False(t, ok)
}

func TestCSVEventRegistryRejectsUnsortedDates(t *testing.T) {
	path := writeFile(t, "bad.csv", "date,actual,forecast\n2024-02-12,5.10,5.2\n2024-01-12,5.69,5.3\n")

	_, err := NewCSVEventRegistry(path, "")
	require.Error(t, err)
	require.True(t, errors.Is(err, models.ErrBadConfig))
}

func TestCSVEventRegistryRejectsDuplicateDates(t *testing.T) {
	path := writeFile(t, "dup.csv", "date,actual,forecast\n2024-01-12,5.69,5.3\n2024-01-12,5.70,5.3\n")

	_, err := NewCSVEventRegistry(path, "")
	require.True(t, errors.Is(err, models.ErrBadConfig))
}

func TestCSVEventRegistryRejectsBadNumbers(t *testing.T) {
	path := writeFile(t, "nan.csv", "date,actual,forecast\n2024-01-12,abc,5.3\n")

	_, err := NewCSVEventRegistry(path, "")
	require.True(t, errors.Is(err, models.ErrBadConfig))
}

func TestCSVEventRegistryPolicyEvents(t *testing.T) {
	releases := writeFile(t, "cpi.csv", "date,actual,forecast\n2024-01-12,5.69,5.3\n")
	policy := writeFile(t, "policy.csv", "date,label\n2024-02-08,hold\n2024-04-05,cut\n")

	reg, err := NewCSVEventRegistry(releases, policy)
	require.NoError(t, err)
	require.Len(t, reg.PolicyEvents(), 2)
	require.Equal(t, "hold", reg.PolicyEvents()[0].Label)
}

func TestCSVEventRegistryEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "date,actual,forecast\n")

	_, err := NewCSVEventRegistry(path, "")
	require.True(t, errors.Is(err, models.ErrBadConfig))
}
