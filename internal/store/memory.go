package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/floodwatch-br/floodwatch/internal/risk"
)

var (
	// ErrEmptyDataset is returned when the source yields no usable records
	// after filtering. Startup must treat this as fatal: date-range
	// computation has no meaning over an empty dataset.
	ErrEmptyDataset = errors.New("no occurrence records after filtering")
)

// expected source columns, in order.
var columns = []string{
	"date", "lat", "lon", "risk_classification",
	"srtm_score", "gpm_score", "smap_score", "recommended_action",
}

// MemoryStore holds the full occurrence dataset, loaded once at startup and
// read-only afterwards. No locking: nothing mutates it after construction.
type MemoryStore struct {
	records []risk.Occurrence

	// byDay indexes records by canonical yyyy-mm-dd key.
	byDay map[string][]risk.Occurrence
}

// LoadCSV reads the occurrence dataset from a CSV file. Records in the
// lowest ("Low") raw category are dropped. A missing file, a bad header, or
// any malformed row is a load error; a dataset that filters down to nothing
// is ErrEmptyDataset.
func LoadCSV(path string) (*MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data source: %w", err)
	}
	defer f.Close()

	s, err := loadReader(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

func loadReader(r io.Reader) (*MemoryStore, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	s := &MemoryStore{byDay: make(map[string][]risk.Occurrence)}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row)
		if err != nil {
			if errors.Is(err, risk.ErrLowLevel) {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		s.records = append(s.records, rec)
		s.byDay[rec.DayKey()] = append(s.byDay[rec.DayKey()], rec)
	}

	if len(s.records) == 0 {
		return nil, ErrEmptyDataset
	}
	return s, nil
}

func checkHeader(header []string) error {
	if len(header) != len(columns) {
		return fmt.Errorf("expected %d columns, got %d", len(columns), len(header))
	}
	for i, want := range columns {
		if header[i] != want {
			return fmt.Errorf("column %d: expected %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

func parseRow(row []string) (risk.Occurrence, error) {
	if len(row) != len(columns) {
		return risk.Occurrence{}, fmt.Errorf("expected %d fields, got %d", len(columns), len(row))
	}

	date, err := risk.ParseDate(row[0])
	if err != nil {
		return risk.Occurrence{}, err
	}

	lat, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return risk.Occurrence{}, fmt.Errorf("lat: %w", err)
	}
	lon, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return risk.Occurrence{}, fmt.Errorf("lon: %w", err)
	}

	level, err := risk.ParseLevel(row[3])
	if err != nil {
		return risk.Occurrence{}, err
	}

	srtm, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return risk.Occurrence{}, fmt.Errorf("srtm_score: %w", err)
	}
	gpm, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return risk.Occurrence{}, fmt.Errorf("gpm_score: %w", err)
	}
	smap, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return risk.Occurrence{}, fmt.Errorf("smap_score: %w", err)
	}

	return risk.Occurrence{
		Date:              date,
		Lat:               lat,
		Lon:               lon,
		Level:             level,
		SRTMScore:         srtm,
		GPMScore:          gpm,
		SMAPScore:         smap,
		RecommendedAction: row[7],
	}, nil
}

// Records returns every loaded occurrence. Callers must not mutate the slice.
func (s *MemoryStore) Records() []risk.Occurrence {
	return s.records
}

// AllRecordsOn returns the occurrences on the given calendar day, possibly
// none. A day outside the dataset is not an error.
func (s *MemoryStore) AllRecordsOn(day time.Time) []risk.Occurrence {
	return s.byDay[risk.DayKey(day)]
}
