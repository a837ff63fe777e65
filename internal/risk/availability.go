package risk

import (
	"errors"
	"sort"
	"time"
)

// ErrNoDates is returned when availability is computed over zero records.
// The caller must treat this as fatal rather than work with undefined bounds.
var ErrNoDates = errors.New("no occurrence dates to compute availability from")

// Availability describes which calendar days inside the dataset's date range
// actually have data. The date-picker uses it to bound the selectable range
// and to disable empty days.
type Availability struct {
	MinDate        time.Time   `json:"minDate"`
	MaxDate        time.Time   `json:"maxDate"`
	AvailableDates []time.Time `json:"availableDates"` // ascending
	DisabledDates  []time.Time `json:"disabledDates"`  // ascending
}

// Has reports whether the given day is in the available set.
func (a Availability) Has(day time.Time) bool {
	key := DayKey(day)
	for _, d := range a.AvailableDates {
		if DayKey(d) == key {
			return true
		}
	}
	return false
}

// ComputeAvailability derives the available/disabled day sets from the loaded
// records: available = distinct occurrence days sorted ascending, bounds =
// first/last of that sequence, disabled = every day in [min,max] not available.
func ComputeAvailability(records []Occurrence) (Availability, error) {
	if len(records) == 0 {
		return Availability{}, ErrNoDates
	}

	seen := make(map[string]time.Time)
	for _, rec := range records {
		day := Midnight(rec.Date)
		seen[DayKey(day)] = day
	}

	available := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		available = append(available, day)
	}
	sort.Slice(available, func(i, j int) bool { return available[i].Before(available[j]) })

	min := available[0]
	max := available[len(available)-1]

	var disabled []time.Time
	for day := min; !day.After(max); day = day.AddDate(0, 0, 1) {
		if _, ok := seen[DayKey(day)]; !ok {
			disabled = append(disabled, day)
		}
	}

	return Availability{
		MinDate:        min,
		MaxDate:        max,
		AvailableDates: available,
		DisabledDates:  disabled,
	}, nil
}
