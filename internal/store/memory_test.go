package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/floodwatch-br/floodwatch/internal/risk"
)

const fixtureCSV = `date,lat,lon,risk_classification,srtm_score,gpm_score,smap_score,recommended_action
2024-01-01,-27.59690,-48.54890,High,0.7,0.6,0.5,Monitor drainage channels
2024-01-01,-27.60100,-48.55200,Critical,0.9,0.8,0.9,Evacuate low-lying areas
2024-01-01,-27.58000,-48.53000,Baixo,0.1,0.1,0.2,No action needed
2024-01-03,-27.59000,-48.54000,Moderado,0.4,0.3,0.3,Keep storm drains clear
`

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadCSVDropsLowRecords(t *testing.T) {
	s, err := LoadCSV(writeCSV(t, fixtureCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The Baixo/Low row must not survive the load.
	if got := len(s.Records()); got != 3 {
		t.Fatalf("expected 3 records after filtering, got %d", got)
	}
	for _, rec := range s.Records() {
		switch rec.Level {
		case risk.LevelModerate, risk.LevelHigh, risk.LevelCritical:
		default:
			t.Fatalf("unexpected level %q in loaded records", rec.Level)
		}
	}
}

func TestAllRecordsOn(t *testing.T) {
	s, err := LoadCSV(writeCSV(t, fixtureCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := len(s.AllRecordsOn(jan1)); got != 2 {
		t.Fatalf("expected 2 records on 2024-01-01, got %d", got)
	}

	// A day inside the range without data is empty, not an error.
	jan2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := len(s.AllRecordsOn(jan2)); got != 0 {
		t.Fatalf("expected no records on 2024-01-02, got %d", got)
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadCSVBadHeader(t *testing.T) {
	contents := "date,lat,lon,risk,srtm_score,gpm_score,smap_score,recommended_action\n"
	if _, err := LoadCSV(writeCSV(t, contents)); err == nil {
		t.Fatal("expected error for unexpected header")
	}
}

func TestLoadCSVMalformedRow(t *testing.T) {
	contents := `date,lat,lon,risk_classification,srtm_score,gpm_score,smap_score,recommended_action
2024-01-01,not-a-number,-48.5,High,0.7,0.6,0.5,Monitor
`
	if _, err := LoadCSV(writeCSV(t, contents)); err == nil {
		t.Fatal("expected error for malformed row")
	}
}

func TestLoadCSVEmptyAfterFilter(t *testing.T) {
	contents := `date,lat,lon,risk_classification,srtm_score,gpm_score,smap_score,recommended_action
2024-01-01,-27.5,-48.5,Low,0.1,0.1,0.1,No action needed
`
	_, err := LoadCSV(writeCSV(t, contents))
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}
