package routing_http_handler

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/init-pkg/meal-routes/domain/dtos"
	"github.com/rotisserie/eris"
)

type RoutingHttpHandler struct {
	service  app.RoutePlannerService
	validate *validator.Validate
}

func New(service app.RoutePlannerService, validate *validator.Validate) *RoutingHttpHandler {
	return &RoutingHttpHandler{service, validate}
}

func (this *RoutingHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/routes")

	app.Post("/", this.create)
	app.Get("/:id", this.get)
	app.Get("/:id/map", this.renderMap)
}

// @Summary Plan delivery routes
// @Tags routes
// @Accept json
// @Produce json
// @Param request body dtos.CreateRoutePlanRequest true "Route plan request"
// @Success 201 {object} app.RoutePlan
// @Failure 400 {object} http_server.ErrorBody
// @Failure 404 {object} http_server.ErrorBody "Sheet not found"
// @Router /routes [post]
func (this *RoutingHttpHandler) create(c fiber.Ctx) error {
	var body dtos.CreateRoutePlanRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return eris.Wrapf(app.ErrInvalidRequest, "malformed json: %v", err)
	}
	if err := dtos.Validate(this.validate, &body); err != nil {
		return err
	}

	plan, err := this.service.Plan(c.Context(), body.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (this *RoutingHttpHandler) params(c fiber.Ctx) (*dtos.RoutePlanParams, error) {
	p := &dtos.RoutePlanParams{Id: c.Params("id")}
	if err := dtos.Validate(this.validate, p); err != nil {
		return nil, err
	}
	return p, nil
}

// @Summary Get a route plan
// @Tags routes
// @Produce json
// @Param id path string true "Route plan ID" format(uuid)
// @Success 200 {object} app.RoutePlan
// @Failure 404 {object} http_server.ErrorBody
// @Router /routes/{id} [get]
func (this *RoutingHttpHandler) get(c fiber.Ctx) error {
	p, err := this.params(c)
	if err != nil {
		return err
	}

	plan, err := this.service.Get(c.Context(), p.Id)
	if err != nil {
		return err
	}
	return c.JSON(plan)
}

// @Summary Map of a route plan
// @Tags routes
// @Produce html
// @Param id path string true "Route plan ID" format(uuid)
// @Success 200 {string} string "Leaflet page"
// @Router /routes/{id}/map [get]
func (this *RoutingHttpHandler) renderMap(c fiber.Ctx) error {
	p, err := this.params(c)
	if err != nil {
		return err
	}

	page, err := this.service.RenderMap(c.Context(), p.Id)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/html; charset=utf-8")
	return c.Send(page)
}
