package routing_service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/init-pkg/meal-routes/domain/app"
	map_render_service "github.com/init-pkg/meal-routes/internal/app/map-render/service"
	storage_repository "github.com/init-pkg/meal-routes/internal/app/storage/repository"
	openroute_client "github.com/init-pkg/meal-routes/internal/clients/openroute"
	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOptimizer struct {
	req  *openroute_client.OptimizationRequest
	resp *openroute_client.OptimizationResponse
	err  error
}

func (f *fakeOptimizer) Optimize(_ context.Context, req *openroute_client.OptimizationRequest) (*openroute_client.OptimizationResponse, error) {
	f.req = req
	return f.resp, f.err
}

type fakePublisher struct {
	plans []*app.RoutePlan
	err   error
}

func (f *fakePublisher) PublishRoutePlan(_ context.Context, plan *app.RoutePlan) error {
	f.plans = append(f.plans, plan)
	return f.err
}

func intPtr(v int) *int { return &v }

const sheetID = "3f7c1c2e-8f55-4d8e-9b0e-2a9f0c6c1a11"

func testSheet() *app.BeneficiarySheet {
	return &app.BeneficiarySheet{
		ID:          sheetID,
		FileName:    "list.xlsx",
		MealOptions: []string{"standard meals", "vegetarian meals"},
		Beneficiaries: []app.Beneficiary{
			{Row: 2, Name: "Ann", Location: &app.Coordinates{Lat: 51.5, Lng: -0.12}, Meals: []int{2, 1}},
			{Row: 3, Name: "Bob", Meals: []int{1, 0}},
			{Row: 4, Name: "Cid", Location: &app.Coordinates{Lat: 51.52, Lng: -0.1}, Meals: []int{0, 3}},
		},
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Fleet: config.Fleet{
			Vehicles:       2,
			Profile:        "driving-car",
			Capacity:       []int{40, 40},
			ServiceSeconds: 300,
		},
	}
}

type fixture struct {
	service   *RoutePlannerService
	repo      *storage_repository.MemoryRepository
	optimizer *fakeOptimizer
	publisher *fakePublisher
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	repo := storage_repository.NewMemoryRepository()
	require.NoError(t, repo.SaveSheet(context.Background(), testSheet()))

	optimizer := &fakeOptimizer{resp: &openroute_client.OptimizationResponse{
		Routes: []openroute_client.Route{{
			Vehicle:  1,
			Delivery: []int{2, 4},
			Distance: 5300,
			Duration: 1800,
			Steps: []openroute_client.Step{
				{Type: "start", Location: openroute_client.Location{-0.09, 51.49}},
				{Type: "job", Location: openroute_client.Location{-0.1, 51.52}, ID: intPtr(4), Arrival: 400},
				{Type: "job", Location: openroute_client.Location{-0.12, 51.5}, Job: intPtr(2), Arrival: 900},
				{Type: "end", Location: openroute_client.Location{-0.09, 51.49}, Arrival: 1800},
			},
			Geometry: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
		}},
	}}
	publisher := &fakePublisher{}

	service := New(
		cfg,
		repo,
		repo,
		repo,
		publisher,
		optimizer,
		map_render_service.New(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return &fixture{service, repo, optimizer, publisher}
}

func TestPlan(t *testing.T) {
	fx := newFixture(t, testConfig())
	ctx := context.Background()

	plan, err := fx.service.Plan(ctx, app.RoutePlanRequest{
		SheetID: sheetID,
		Depot:   &app.Coordinates{Lat: 51.49, Lng: -0.09},
	})
	require.NoError(t, err)

	req := fx.optimizer.req
	require.NotNil(t, req)
	assert.True(t, req.Options.G)
	require.Len(t, req.Jobs, 2)
	assert.Equal(t, openroute_client.Job{
		ID: 2, Description: "Ann", Location: openroute_client.Location{-0.12, 51.5}, Service: 300, Delivery: []int{2, 1},
	}, req.Jobs[0])
	require.Len(t, req.Vehicles, 2)
	assert.Equal(t, "vehicle-1", req.Vehicles[0].Description)
	assert.Equal(t, []int{40, 40}, req.Vehicles[0].Capacity)
	assert.Equal(t, openroute_client.Location{-0.09, 51.49}, *req.Vehicles[0].Start)

	assert.Equal(t, []int{3}, plan.Skipped)
	assert.Empty(t, plan.Unassigned)
	require.Len(t, plan.Routes, 1)

	route := plan.Routes[0]
	assert.Equal(t, uint(1), route.VehicleID)
	assert.Equal(t, "vehicle-1", route.VehicleName)
	require.Len(t, route.Stops, 4)
	assert.Equal(t, app.StopStart, route.Stops[0].Type)
	assert.Equal(t, app.RouteStop{
		Type: app.StopJob, BeneficiaryRow: 4, Name: "Cid", Location: app.Coordinates{Lat: 51.52, Lng: -0.1}, Arrival: 400,
	}, route.Stops[1])
	assert.Equal(t, 2, route.Stops[2].BeneficiaryRow)
	assert.Equal(t, app.StopEnd, route.Stops[3].Type)
	assert.Len(t, route.Geometry, 3)

	stored, err := fx.service.Get(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, stored.ID)

	require.Len(t, fx.publisher.plans, 1)
	assert.Equal(t, plan.ID, fx.publisher.plans[0].ID)

	page, err := fx.service.RenderMap(ctx, plan.ID)
	require.NoError(t, err)
	assert.Contains(t, string(page), "vehicle-1, stop 1")
}

func TestPlan_StoredVehicles(t *testing.T) {
	fx := newFixture(t, testConfig())
	ctx := context.Background()

	require.NoError(t, fx.repo.UpsertVehicles(ctx, []app.Vehicle{
		{Name: "van-a", Profile: "driving-hgv", Capacity: []int{10, 10}},
		{Name: "van-b", Profile: "driving-car", Capacity: []int{5, 5}},
	}))

	_, err := fx.service.Plan(ctx, app.RoutePlanRequest{
		SheetID:    sheetID,
		Depot:      &app.Coordinates{Lat: 51.49, Lng: -0.09},
		VehicleIDs: []uint{2},
	})
	require.NoError(t, err)

	require.Len(t, fx.optimizer.req.Vehicles, 1)
	assert.Equal(t, 2, fx.optimizer.req.Vehicles[0].ID)
	assert.Equal(t, "driving-car", fx.optimizer.req.Vehicles[0].Profile)

	_, err = fx.service.Plan(ctx, app.RoutePlanRequest{
		SheetID:    sheetID,
		Depot:      &app.Coordinates{Lat: 51.49, Lng: -0.09},
		VehicleIDs: []uint{99},
	})
	assert.True(t, errors.Is(err, app.ErrInvalidRequest))
}

func TestPlan_DepotFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Fleet.DepotLat, cfg.Fleet.DepotLng = 51.48, -0.08
	fx := newFixture(t, cfg)

	plan, err := fx.service.Plan(context.Background(), app.RoutePlanRequest{SheetID: sheetID})
	require.NoError(t, err)
	assert.Equal(t, app.Coordinates{Lat: 51.48, Lng: -0.08}, plan.Depot)
}

func TestPlan_Errors(t *testing.T) {
	depot := &app.Coordinates{Lat: 51.49, Lng: -0.09}

	t.Run("sheet id required", func(t *testing.T) {
		fx := newFixture(t, testConfig())
		_, err := fx.service.Plan(context.Background(), app.RoutePlanRequest{})
		assert.True(t, errors.Is(err, app.ErrInvalidRequest))
	})

	t.Run("unknown sheet", func(t *testing.T) {
		fx := newFixture(t, testConfig())
		_, err := fx.service.Plan(context.Background(), app.RoutePlanRequest{SheetID: "nope", Depot: depot})
		assert.True(t, errors.Is(err, app.ErrNotFound))
	})

	t.Run("no depot", func(t *testing.T) {
		fx := newFixture(t, testConfig())
		_, err := fx.service.Plan(context.Background(), app.RoutePlanRequest{SheetID: sheetID})
		assert.True(t, errors.Is(err, app.ErrInvalidRequest))
		assert.Nil(t, fx.optimizer.req)
	})

	t.Run("capacity does not fit meal options", func(t *testing.T) {
		cfg := testConfig()
		cfg.Fleet.Capacity = []int{40}
		fx := newFixture(t, cfg)
		_, err := fx.service.Plan(context.Background(), app.RoutePlanRequest{SheetID: sheetID, Depot: depot})
		assert.True(t, errors.Is(err, app.ErrInvalidRequest))
	})

	t.Run("optimizer failure", func(t *testing.T) {
		fx := newFixture(t, testConfig())
		fx.optimizer.err = errors.New("upstream down")
		_, err := fx.service.Plan(context.Background(), app.RoutePlanRequest{SheetID: sheetID, Depot: depot})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upstream down")
		assert.Empty(t, fx.publisher.plans)
	})

	t.Run("publish failure keeps the plan", func(t *testing.T) {
		fx := newFixture(t, testConfig())
		fx.publisher.err = errors.New("broker down")
		plan, err := fx.service.Plan(context.Background(), app.RoutePlanRequest{SheetID: sheetID, Depot: depot})
		require.NoError(t, err)
		_, err = fx.service.Get(context.Background(), plan.ID)
		assert.NoError(t, err)
	})
}

func TestPlan_UnassignedAndBadGeometry(t *testing.T) {
	fx := newFixture(t, testConfig())
	fx.optimizer.resp.Routes[0].Geometry = "_p~iF~ps|U_"
	fx.optimizer.resp.Unassigned = []openroute_client.Unassigned{{ID: 4}}

	plan, err := fx.service.Plan(context.Background(), app.RoutePlanRequest{
		SheetID: sheetID,
		Depot:   &app.Coordinates{Lat: 51.49, Lng: -0.09},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{4}, plan.Unassigned)
	assert.Nil(t, plan.Routes[0].Geometry)
}

func TestDefaultFleet(t *testing.T) {
	fleet := DefaultFleet(testConfig().Fleet)
	require.Len(t, fleet, 2)
	assert.Equal(t, app.Vehicle{ID: 2, Name: "vehicle-2", Profile: "driving-car", Capacity: []int{40, 40}}, fleet[1])

	fleet[0].Capacity[0] = 1
	assert.Equal(t, 40, fleet[1].Capacity[0])
}
