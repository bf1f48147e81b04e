package dtos

import "github.com/init-pkg/meal-routes/domain/app"

type DepotDto struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type CreateRoutePlanRequest struct {
	SheetId    string    `json:"sheet_id" validate:"required,uuid"`
	Depot      *DepotDto `json:"depot" validate:"omitempty"`
	VehicleIds []uint    `json:"vehicle_ids" validate:"omitempty,dive,gt=0"`
}

func (r *CreateRoutePlanRequest) ToDomain() app.RoutePlanRequest {
	req := app.RoutePlanRequest{
		SheetID:    r.SheetId,
		VehicleIDs: r.VehicleIds,
	}
	if r.Depot != nil {
		req.Depot = &app.Coordinates{Lat: r.Depot.Lat, Lng: r.Depot.Lng}
	}
	return req
}

type RoutePlanParams struct {
	Id string `params:"id" json:"id" validate:"required,uuid"`
}
