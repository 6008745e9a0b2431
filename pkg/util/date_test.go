package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeDateOnly(t *testing.T) {
	got, ok := ParseTime("2024-01-12")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestTruncateToDay(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	in := time.Date(2024, 1, 12, 8, 30, 0, 0, ny)
	got := TruncateToDay(in)
	want := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestAlignFromTo(t *testing.T) {
	from := time.Date(2024, 1, 12, 8, 33, 17, 0, time.UTC)
	to := time.Date(2024, 1, 12, 10, 29, 59, 0, time.UTC)

	gf, gt := AlignFromTo(from, to, "5m")
	if gf.Minute()%5 != 0 || gt.Minute()%5 != 0 {
		t.Fatalf("not aligned to 5m: %v %v", gf, gt)
	}

	gf, gt = AlignFromTo(from, to, "1d")
	if gf.Hour() != 0 || gt.Hour() != 0 {
		t.Fatalf("not aligned to day: %v %v", gf, gt)
	}
}
