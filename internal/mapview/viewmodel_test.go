package mapview

import (
	"testing"
	"time"

	"github.com/floodwatch-br/floodwatch/internal/risk"
)

// fakeSource serves a fixed record set keyed by day.
type fakeSource struct {
	records []risk.Occurrence
}

func (f *fakeSource) AllRecordsOn(day time.Time) []risk.Occurrence {
	var out []risk.Occurrence
	for _, rec := range f.records {
		if rec.DayKey() == risk.DayKey(day) {
			out = append(out, rec)
		}
	}
	return out
}

func jan(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func newFixture() *ViewModel {
	return New(&fakeSource{records: []risk.Occurrence{
		{
			Date: jan(1), Lat: -27.5969, Lon: -48.5489, Level: risk.LevelHigh,
			SRTMScore: 0.7, GPMScore: 0.6, SMAPScore: 0.5,
			RecommendedAction: "Monitor drainage channels",
		},
		{
			Date: jan(1), Lat: -27.601, Lon: -48.552, Level: risk.LevelCritical,
			SRTMScore: 0.9, GPMScore: 0.8, SMAPScore: 0.9,
			RecommendedAction: "Evacuate low-lying areas",
		},
		{
			Date: jan(5), Lat: -27.58, Lon: -48.53, Level: risk.LevelModerate,
			SRTMScore: 0.4, GPMScore: 0.3, SMAPScore: 0.3,
			RecommendedAction: "Keep storm drains clear",
		},
	}})
}

// TestRenderScenario covers the two-occurrence day and the empty day: the
// point count tracks the records on the selected date, and colors follow the
// fixed classification table.
func TestRenderScenario(t *testing.T) {
	vm := newFixture()

	spec := vm.Render(jan(1))
	if len(spec.Points) != 2 {
		t.Fatalf("expected 2 points on 2024-01-01, got %d", len(spec.Points))
	}
	colors := map[string]bool{}
	for _, p := range spec.Points {
		colors[p.Color] = true
	}
	if !colors["orange"] || !colors["red"] || len(colors) != 2 {
		t.Fatalf("expected colors {orange, red}, got %v", colors)
	}

	empty := vm.Render(jan(2))
	if len(empty.Points) != 0 {
		t.Fatalf("expected empty spec on 2024-01-02, got %d points", len(empty.Points))
	}
	if empty.Points == nil {
		t.Fatal("empty spec must carry a non-nil point list")
	}
}

// TestRenderEncoding pins the full color/size table.
func TestRenderEncoding(t *testing.T) {
	vm := newFixture()

	want := map[risk.Level]struct {
		color string
		size  int
	}{
		risk.LevelModerate: {"yellow", 10},
		risk.LevelHigh:     {"orange", 20},
		risk.LevelCritical: {"red", 30},
	}

	for _, day := range []time.Time{jan(1), jan(5)} {
		for _, p := range vm.Render(day).Points {
			enc := want[p.Hover.Level]
			if p.Color != enc.color || p.Size != enc.size {
				t.Fatalf("level %s encoded as (%s,%d), want (%s,%d)",
					p.Hover.Level, p.Color, p.Size, enc.color, enc.size)
			}
		}
	}
}

func TestRenderHoverPayload(t *testing.T) {
	vm := newFixture()

	spec := vm.Render(jan(1))
	var hover Hover
	for _, p := range spec.Points {
		if p.Hover.Level == risk.LevelHigh {
			hover = p.Hover
		}
	}

	if hover.SRTMScore != 0.7 || hover.GPMScore != 0.6 || hover.SMAPScore != 0.5 {
		t.Fatalf("unexpected scores in hover payload: %+v", hover)
	}
	if hover.RecommendedAction != "Monitor drainage channels" {
		t.Fatalf("unexpected recommended action: %q", hover.RecommendedAction)
	}
	// Coordinates are formatted to exactly 5 decimal places.
	if hover.Coordinates != "-27.59690, -48.54890" {
		t.Fatalf("unexpected coordinate formatting: %q", hover.Coordinates)
	}
}

func TestRenderFixedViewAndTitle(t *testing.T) {
	vm := newFixture()

	for _, day := range []time.Time{jan(1), jan(2)} {
		spec := vm.Render(day)
		if spec.Center.Lat != -27.5969 || spec.Center.Lon != -48.5489 {
			t.Fatalf("map center must stay fixed, got %+v", spec.Center)
		}
		if spec.Zoom != 11 {
			t.Fatalf("zoom must stay fixed at 11, got %d", spec.Zoom)
		}
	}

	// Title embeds the selected date as day/month/year.
	if got := vm.Render(jan(5)).Title; got != "Occurrences to date: 05/01/2024" {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestRenderZeroDate(t *testing.T) {
	spec := newFixture().Render(time.Time{})
	if len(spec.Points) != 0 || spec.Title != "" {
		t.Fatalf("zero date must render an empty untitled spec, got %+v", spec)
	}
}
