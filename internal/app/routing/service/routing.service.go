package routing_service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/init-pkg/meal-routes/domain/app"
	map_render_service "github.com/init-pkg/meal-routes/internal/app/map-render/service"
	openroute_client "github.com/init-pkg/meal-routes/internal/clients/openroute"
	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/rotisserie/eris"
)

// Optimizer solves a vehicle routing problem.
type Optimizer interface {
	Optimize(ctx context.Context, payload *openroute_client.OptimizationRequest) (*openroute_client.OptimizationResponse, error)
}

type RoutePlannerService struct {
	fleet     config.Fleet
	sheets    app.SheetRepository
	vehicles  app.VehicleRepository
	plans     app.RoutePlanRepository
	publisher app.RoutePlanPublisher
	optimizer Optimizer
	maps      *map_render_service.MapRenderService
	log       *slog.Logger
}

var _ app.RoutePlannerService = &RoutePlannerService{}

func New(
	cfg *config.Config,
	sheets app.SheetRepository,
	vehicles app.VehicleRepository,
	plans app.RoutePlanRepository,
	publisher app.RoutePlanPublisher,
	optimizer Optimizer,
	maps *map_render_service.MapRenderService,
	log *slog.Logger,
) *RoutePlannerService {
	return &RoutePlannerService{
		fleet:     cfg.Fleet,
		sheets:    sheets,
		vehicles:  vehicles,
		plans:     plans,
		publisher: publisher,
		optimizer: optimizer,
		maps:      maps,
		log:       log,
	}
}

// DefaultFleet builds the vehicles described by the fleet config.
func DefaultFleet(fleet config.Fleet) []app.Vehicle {
	out := make([]app.Vehicle, 0, fleet.Vehicles)
	for i := 1; i <= fleet.Vehicles; i++ {
		out = append(out, app.Vehicle{
			ID:       uint(i),
			Name:     fmt.Sprintf("vehicle-%d", i),
			Profile:  fleet.Profile,
			Capacity: append([]int(nil), fleet.Capacity...),
		})
	}
	return out
}

// Plan assigns every located beneficiary of a sheet to a vehicle route
// starting and ending at the depot. Meal counts are the deliveries and
// vehicle capacities bound them per meal option.
func (this *RoutePlannerService) Plan(ctx context.Context, req app.RoutePlanRequest) (*app.RoutePlan, error) {
	if req.SheetID == "" {
		return nil, eris.Wrap(app.ErrInvalidRequest, "sheet_id is required")
	}

	sheet, err := this.sheets.FindSheet(ctx, req.SheetID)
	if err != nil {
		return nil, err
	}

	depot := app.Coordinates{Lat: this.fleet.DepotLat, Lng: this.fleet.DepotLng}
	if req.Depot != nil {
		depot = *req.Depot
	}
	if !depot.Valid() {
		return nil, eris.Wrap(app.ErrInvalidRequest, "depot coordinates are required")
	}

	vehicles, err := this.resolveVehicles(ctx, req.VehicleIDs, len(sheet.MealOptions))
	if err != nil {
		return nil, err
	}

	problem, skipped := buildProblem(sheet, vehicles, depot, this.fleet.ServiceSeconds)
	if len(problem.Jobs) == 0 {
		return nil, eris.Wrap(app.ErrInvalidRequest, "sheet has no beneficiaries with coordinates")
	}

	this.log.Info("Route optimization started",
		"sheet_id", sheet.ID,
		"jobs", len(problem.Jobs),
		"vehicles", len(problem.Vehicles),
		"skipped", len(skipped),
	)

	resp, err := this.optimizer.Optimize(ctx, problem)
	if err != nil {
		return nil, eris.Wrap(err, "optimize routes")
	}

	plan := &app.RoutePlan{
		ID:        uuid.NewString(),
		SheetID:   sheet.ID,
		Depot:     depot,
		Skipped:   skipped,
		CreatedAt: time.Now().UTC(),
	}
	plan.Routes, plan.Unassigned = this.readSolution(resp, sheet, vehicles)

	if err := this.plans.SaveRoutePlan(ctx, plan); err != nil {
		return nil, eris.Wrap(err, "save route plan")
	}

	if err := this.publisher.PublishRoutePlan(ctx, plan); err != nil {
		this.log.Warn("Route plan event not published", "plan_id", plan.ID, "error", err)
	}

	this.log.Info("Route plan created",
		"plan_id", plan.ID,
		"routes", len(plan.Routes),
		"unassigned", len(plan.Unassigned),
	)

	return plan, nil
}

// resolveVehicles loads the requested vehicles. Without ids it takes the
// stored fleet, falling back to the configured one.
func (this *RoutePlannerService) resolveVehicles(ctx context.Context, ids []uint, mealOptions int) ([]app.Vehicle, error) {
	vehicles, err := this.vehicles.ListVehicles(ctx, ids)
	if err != nil {
		return nil, eris.Wrap(err, "list vehicles")
	}

	if len(vehicles) == 0 {
		if len(ids) > 0 {
			return nil, eris.Wrapf(app.ErrInvalidRequest, "vehicles %v not found", ids)
		}
		vehicles = DefaultFleet(this.fleet)
	}
	if len(vehicles) == 0 {
		return nil, eris.Wrap(app.ErrInvalidRequest, "no vehicles available")
	}

	for _, v := range vehicles {
		if len(v.Capacity) != mealOptions {
			return nil, eris.Wrapf(app.ErrInvalidRequest,
				"vehicle %s has %d capacities, sheet has %d meal options", v.Name, len(v.Capacity), mealOptions)
		}
	}

	return vehicles, nil
}

func toLocation(c app.Coordinates) openroute_client.Location {
	return openroute_client.Location{c.Lng, c.Lat}
}

func fromLocation(l openroute_client.Location) app.Coordinates {
	return app.Coordinates{Lat: l[1], Lng: l[0]}
}

// buildProblem maps beneficiaries to jobs keyed by spreadsheet row. Rows
// without coordinates are returned as skipped.
func buildProblem(
	sheet *app.BeneficiarySheet,
	vehicles []app.Vehicle,
	depot app.Coordinates,
	serviceSeconds int,
) (*openroute_client.OptimizationRequest, []int) {
	req := &openroute_client.OptimizationRequest{
		Options: &openroute_client.Options{G: true},
	}
	var skipped []int

	for _, b := range sheet.Beneficiaries {
		if b.Location == nil {
			skipped = append(skipped, b.Row)
			continue
		}

		delivery := make([]int, len(sheet.MealOptions))
		copy(delivery, b.Meals)

		req.Jobs = append(req.Jobs, openroute_client.Job{
			ID:          b.Row,
			Description: b.Name,
			Location:    toLocation(*b.Location),
			Service:     serviceSeconds,
			Delivery:    delivery,
		})
	}

	start := toLocation(depot)
	for _, v := range vehicles {
		req.Vehicles = append(req.Vehicles, openroute_client.Vehicle{
			ID:          int(v.ID),
			Description: v.Name,
			Profile:     v.Profile,
			Start:       &start,
			End:         &start,
			Capacity:    v.Capacity,
		})
	}

	return req, skipped
}

func (this *RoutePlannerService) readSolution(
	resp *openroute_client.OptimizationResponse,
	sheet *app.BeneficiarySheet,
	vehicles []app.Vehicle,
) ([]app.Route, []int) {
	names := make(map[int]string, len(sheet.Beneficiaries))
	for _, b := range sheet.Beneficiaries {
		names[b.Row] = b.Name
	}
	vehicleNames := make(map[int]string, len(vehicles))
	for _, v := range vehicles {
		vehicleNames[int(v.ID)] = v.Name
	}

	routes := make([]app.Route, 0, len(resp.Routes))
	for _, r := range resp.Routes {
		route := app.Route{
			VehicleID:   uint(r.Vehicle),
			VehicleName: vehicleNames[r.Vehicle],
			Delivery:    r.Delivery,
			Distance:    r.Distance,
			Duration:    r.Duration,
		}

		for _, step := range r.Steps {
			stop := app.RouteStop{
				Location: fromLocation(step.Location),
				Arrival:  step.Arrival,
			}
			switch step.Type {
			case "start":
				stop.Type = app.StopStart
			case "end":
				stop.Type = app.StopEnd
			case "job":
				row, ok := step.JobID()
				if !ok {
					continue
				}
				stop.Type = app.StopJob
				stop.BeneficiaryRow = row
				stop.Name = names[row]
			default:
				// breaks and pickups are not part of these problems
				continue
			}
			route.Stops = append(route.Stops, stop)
		}

		if r.Geometry != "" {
			geometry, err := openroute_client.DecodePolyline(r.Geometry)
			if err != nil {
				this.log.Warn("Route geometry not decoded", "vehicle", r.Vehicle, "error", err)
			} else {
				route.Geometry = geometry
			}
		}

		routes = append(routes, route)
	}

	var unassigned []int
	for _, u := range resp.Unassigned {
		unassigned = append(unassigned, u.ID)
	}

	return routes, unassigned
}

func (this *RoutePlannerService) Get(ctx context.Context, id string) (*app.RoutePlan, error) {
	return this.plans.FindRoutePlan(ctx, id)
}

func (this *RoutePlannerService) RenderMap(ctx context.Context, id string) ([]byte, error) {
	plan, err := this.plans.FindRoutePlan(ctx, id)
	if err != nil {
		return nil, err
	}
	sheet, err := this.sheets.FindSheet(ctx, plan.SheetID)
	if err != nil {
		return nil, err
	}
	return this.maps.RenderRoutePlan(plan, sheet)
}
