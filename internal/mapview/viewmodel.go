package mapview

import (
	"fmt"
	"time"

	"github.com/floodwatch-br/floodwatch/internal/risk"
)

// Map center and zoom are fixed: the dashboard always frames Florianópolis,
// it never auto-fits to the filtered points.
var floripaCenter = Center{Lat: -27.5969, Lon: -48.5489}

const initialZoom = 11

// colorMap and sizeMap encode risk levels on a shared visual scale.
var colorMap = map[risk.Level]string{
	risk.LevelModerate: "yellow",
	risk.LevelHigh:     "orange",
	risk.LevelCritical: "red",
}

var sizeMap = map[risk.Level]int{
	risk.LevelModerate: 10,
	risk.LevelHigh:     20,
	risk.LevelCritical: 30,
}

// Center is a geographic map center.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Hover is the tooltip payload for one rendered point.
type Hover struct {
	Level             risk.Level `json:"riskClassification"`
	SRTMScore         float64    `json:"srtmScore"`
	GPMScore          float64    `json:"gpmScore"`
	SMAPScore         float64    `json:"smapScore"`
	RecommendedAction string     `json:"recommendedAction"`
	Coordinates       string     `json:"coordinates"` // "lat, lon" at 5 decimal places
}

// Point is one renderable occurrence.
type Point struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Color string  `json:"color"`
	Size  int     `json:"size"`
	Hover Hover   `json:"hover"`
}

// RenderSpec is the fully resolved description of what the map should draw
// for a selected date. An empty Points slice is a valid, empty map.
type RenderSpec struct {
	Title  string  `json:"title"`
	Center Center  `json:"center"`
	Zoom   int     `json:"zoom"`
	Points []Point `json:"points"`
}

// RecordSource is the read-only query surface the view model needs.
type RecordSource interface {
	AllRecordsOn(day time.Time) []risk.Occurrence
}

// ViewModel derives RenderSpecs from the occurrence store.
type ViewModel struct {
	source RecordSource
}

// New creates a ViewModel over the given record source.
func New(source RecordSource) *ViewModel {
	return &ViewModel{source: source}
}

// Render produces the RenderSpec for the selected date. A zero date or a
// date with no records yields an empty spec, never an error.
func (vm *ViewModel) Render(day time.Time) RenderSpec {
	spec := RenderSpec{
		Center: floripaCenter,
		Zoom:   initialZoom,
		Points: []Point{},
	}
	if day.IsZero() {
		return spec
	}

	spec.Title = fmt.Sprintf("Occurrences to date: %s", day.UTC().Format("02/01/2006"))

	for _, rec := range vm.source.AllRecordsOn(day) {
		spec.Points = append(spec.Points, Point{
			Lat:   rec.Lat,
			Lon:   rec.Lon,
			Color: colorMap[rec.Level],
			Size:  sizeMap[rec.Level],
			Hover: Hover{
				Level:             rec.Level,
				SRTMScore:         rec.SRTMScore,
				GPMScore:          rec.GPMScore,
				SMAPScore:         rec.SMAPScore,
				RecommendedAction: rec.RecommendedAction,
				Coordinates:       fmt.Sprintf("%.5f, %.5f", rec.Lat, rec.Lon),
			},
		})
	}
	return spec
}
