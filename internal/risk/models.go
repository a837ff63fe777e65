package risk

import (
	"fmt"
	"strings"
	"time"
)

// Level represents a normalized flood-risk classification.
type Level string

const (
	LevelModerate Level = "Moderate"
	LevelHigh     Level = "High"
	LevelCritical Level = "Critical"
)

// ErrLowLevel is returned by ParseLevel for the lowest raw category, which
// carries no signal for the dashboard and is dropped at load time.
var ErrLowLevel = fmt.Errorf("low risk level is excluded from the dataset")

// rawLevels maps raw dataset labels to normalized levels. The source data is
// labeled in Portuguese; English labels are accepted as well.
var rawLevels = map[string]Level{
	"moderate": LevelModerate,
	"moderado": LevelModerate,
	"high":     LevelHigh,
	"alto":     LevelHigh,
	"critical": LevelCritical,
	"crítico":  LevelCritical,
	"critico":  LevelCritical,
}

// lowLabels are the raw spellings of the excluded lowest category.
var lowLabels = map[string]bool{
	"low":   true,
	"baixo": true,
}

// ParseLevel normalizes a raw classification label. It returns ErrLowLevel
// for the excluded lowest category and an error for anything unrecognized.
func ParseLevel(raw string) (Level, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if lowLabels[key] {
		return "", ErrLowLevel
	}
	if lvl, ok := rawLevels[key]; ok {
		return lvl, nil
	}
	return "", fmt.Errorf("unknown risk classification %q", raw)
}

// Occurrence is one geotagged flood-risk data point. Immutable after load.
type Occurrence struct {
	Date              time.Time `json:"date"` // midnight UTC
	Lat               float64   `json:"lat"`
	Lon               float64   `json:"lon"`
	Level             Level     `json:"risk_classification"`
	SRTMScore         float64   `json:"srtm_score"`
	GPMScore          float64   `json:"gpm_score"`
	SMAPScore         float64   `json:"smap_score"`
	RecommendedAction string    `json:"recommended_action"`
}

// DayKey returns the canonical string key for an occurrence's calendar day.
func (o Occurrence) DayKey() string {
	return DayKey(o.Date)
}

// DayKey formats a time as the canonical yyyy-mm-dd index key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Midnight truncates a time to midnight UTC so occurrences on the same
// calendar day compare equal regardless of the source timestamp.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dateLayouts are the accepted source representations for the date column.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseDate parses a source date string, tolerating common ISO-like layouts,
// and normalizes the result to midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Midnight(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}
