package map_render_service

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/rotisserie/eris"
)

//go:embed map.html.tmpl
var mapTemplate string

var tmpl = template.Must(template.New("map").Parse(mapTemplate))

var palette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4",
	"#42d4f4", "#f032e6", "#9a6324", "#800000", "#000075",
}

const (
	colorLocated  = "#2a81cb"
	colorGeocoded = "#cb8427"
	colorDepot    = "#000000"
)

type marker struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
	Popup string  `json:"popup"`
	Color string  `json:"color"`
}

type polyline struct {
	Color  string       `json:"color"`
	Popup  string       `json:"popup"`
	Points [][2]float64 `json:"points"`
}

type mapView struct {
	Title   string
	Markers []marker
	Lines   []polyline
}

// MapRenderService renders self-contained Leaflet pages.
type MapRenderService struct{}

func New() *MapRenderService {
	return &MapRenderService{}
}

// RenderBeneficiaries draws one marker per located beneficiary. Geocoded
// points are coloured apart from coordinates that came with the sheet.
func (s *MapRenderService) RenderBeneficiaries(sheet *app.BeneficiarySheet) ([]byte, error) {
	view := mapView{Title: "Beneficiaries - " + sheet.FileName}

	for _, b := range sheet.Located() {
		color := colorLocated
		if b.Geocoded {
			color = colorGeocoded
		}
		view.Markers = append(view.Markers, marker{
			Lat:   b.Location.Lat,
			Lng:   b.Location.Lng,
			Popup: beneficiaryPopup(&b, sheet.MealOptions),
			Color: color,
		})
	}

	return render(view)
}

// RenderRoutePlan draws the depot, one coloured line per vehicle and numbered
// stops. Routes without geometry are drawn stop to stop.
func (s *MapRenderService) RenderRoutePlan(plan *app.RoutePlan, sheet *app.BeneficiarySheet) ([]byte, error) {
	view := mapView{Title: "Route plan " + plan.ID}

	byRow := make(map[int]*app.Beneficiary, len(sheet.Beneficiaries))
	for i := range sheet.Beneficiaries {
		byRow[sheet.Beneficiaries[i].Row] = &sheet.Beneficiaries[i]
	}

	view.Markers = append(view.Markers, marker{
		Lat:   plan.Depot.Lat,
		Lng:   plan.Depot.Lng,
		Label: "D",
		Popup: "Depot",
		Color: colorDepot,
	})

	for i, route := range plan.Routes {
		color := palette[i%len(palette)]

		line := polyline{
			Color: color,
			Popup: fmt.Sprintf("%s\n%d stops, %.1f km, %s",
				route.VehicleName, countJobs(route), route.Distance/1000, formatDuration(route.Duration)),
		}

		points := route.Geometry
		if len(points) == 0 {
			for _, stop := range route.Stops {
				points = append(points, stop.Location)
			}
		}
		for _, p := range points {
			line.Points = append(line.Points, [2]float64{p.Lat, p.Lng})
		}
		view.Lines = append(view.Lines, line)

		n := 0
		for _, stop := range route.Stops {
			if stop.Type != app.StopJob {
				continue
			}
			n++

			popup := fmt.Sprintf("%s, stop %d\nETA +%s", route.VehicleName, n, formatDuration(float64(stop.Arrival)))
			if b, ok := byRow[stop.BeneficiaryRow]; ok {
				popup += "\n" + beneficiaryPopup(b, sheet.MealOptions)
			}

			view.Markers = append(view.Markers, marker{
				Lat:   stop.Location.Lat,
				Lng:   stop.Location.Lng,
				Label: fmt.Sprint(n),
				Popup: popup,
				Color: color,
			})
		}
	}

	return render(view)
}

func render(view mapView) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, eris.Wrap(err, "render map")
	}
	return buf.Bytes(), nil
}

func beneficiaryPopup(b *app.Beneficiary, mealOptions []string) string {
	lines := []string{b.Name, b.Address}
	if b.FormattedAddress != "" && b.FormattedAddress != b.Address {
		lines = append(lines, "Found: "+b.FormattedAddress)
	}
	for i, n := range b.Meals {
		if n == 0 || i >= len(mealOptions) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d", mealOptions[i], n))
	}
	return strings.Join(lines, "\n")
}

func countJobs(r app.Route) int {
	n := 0
	for _, s := range r.Stops {
		if s.Type == app.StopJob {
			n++
		}
	}
	return n
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%dh%02dm", total/3600, (total%3600)/60)
}
