package app

import (
	"context"
	"time"
)

type Vehicle struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Profile  string `json:"profile"`
	Capacity []int  `json:"capacity"`
}

type StopType string

const (
	StopStart StopType = "start"
	StopJob   StopType = "job"
	StopEnd   StopType = "end"
)

type RouteStop struct {
	Type StopType `json:"type"`
	// BeneficiaryRow is set for job stops.
	BeneficiaryRow int         `json:"beneficiary_row,omitempty"`
	Name           string      `json:"name,omitempty"`
	Location       Coordinates `json:"location"`
	// Arrival is seconds since the start of the route.
	Arrival int `json:"arrival"`
}

type Route struct {
	VehicleID   uint          `json:"vehicle_id"`
	VehicleName string        `json:"vehicle_name"`
	Stops       []RouteStop   `json:"stops"`
	Geometry    []Coordinates `json:"geometry,omitempty"`
	Delivery    []int         `json:"delivery"`
	Distance    float64       `json:"distance"`
	Duration    float64       `json:"duration"`
}

type RoutePlan struct {
	ID      string      `json:"id"`
	SheetID string      `json:"sheet_id"`
	Depot   Coordinates `json:"depot"`
	Routes  []Route     `json:"routes"`
	// Unassigned lists rows the optimizer could not fit.
	Unassigned []int `json:"unassigned,omitempty"`
	// Skipped lists rows without coordinates.
	Skipped   []int     `json:"skipped,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RoutePlanRequest struct {
	SheetID    string       `json:"sheet_id"`
	Depot      *Coordinates `json:"depot,omitempty"`
	VehicleIDs []uint       `json:"vehicle_ids,omitempty"`
}

type RoutePlannerService interface {
	Plan(ctx context.Context, req RoutePlanRequest) (*RoutePlan, error)
	Get(ctx context.Context, id string) (*RoutePlan, error)
	RenderMap(ctx context.Context, id string) ([]byte, error)
}

type VehicleRepository interface {
	ListVehicles(ctx context.Context, ids []uint) ([]Vehicle, error)
	UpsertVehicles(ctx context.Context, vehicles []Vehicle) error
}

type RoutePlanRepository interface {
	SaveRoutePlan(ctx context.Context, plan *RoutePlan) error
	FindRoutePlan(ctx context.Context, id string) (*RoutePlan, error)
}

type RoutePlanPublisher interface {
	PublishRoutePlan(ctx context.Context, plan *RoutePlan) error
}
