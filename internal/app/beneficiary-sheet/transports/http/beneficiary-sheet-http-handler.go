package beneficiary_sheet_http_handler

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/init-pkg/meal-routes/domain/dtos"
	"github.com/rotisserie/eris"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type BeneficiarySheetHttpHandler struct {
	service  app.BeneficiarySheetService
	validate *validator.Validate
}

func New(service app.BeneficiarySheetService, validate *validator.Validate) *BeneficiarySheetHttpHandler {
	return &BeneficiarySheetHttpHandler{service, validate}
}

func (this *BeneficiarySheetHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/beneficiaries/sheets")

	app.Post("/", this.upload)
	app.Get("/:id", this.get)
	app.Get("/:id/map", this.renderMap)
	app.Get("/:id/export", this.export)
}

// @Summary Import a beneficiary workbook
// @Tags beneficiaries
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Param geocode query bool false "Geocode rows without coordinates" default(true)
// @Success 201 {object} app.ImportResult
// @Failure 400 {object} http_server.ErrorBody
// @Failure 422 {object} app.ImportResult "Required columns are missing"
// @Router /beneficiaries/sheets [post]
func (this *BeneficiarySheetHttpHandler) upload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return eris.Wrap(app.ErrInvalidRequest, `multipart field "file" is required`)
	}

	geocode := true
	if q := c.Query("geocode"); q != "" {
		if geocode, err = strconv.ParseBool(q); err != nil {
			return eris.Wrapf(app.ErrInvalidRequest, "geocode: %q is not a boolean", q)
		}
	}

	f, err := fh.Open()
	if err != nil {
		return eris.Wrap(err, "open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return eris.Wrap(err, "read upload")
	}

	res, err := this.service.Import(c.Context(), fh.Filename, data, app.ImportOptions{Geocode: geocode})
	if err != nil {
		return err
	}

	if res.Sheet == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (this *BeneficiarySheetHttpHandler) params(c fiber.Ctx) (*dtos.BeneficiarySheetParams, error) {
	p := &dtos.BeneficiarySheetParams{Id: c.Params("id")}
	if err := dtos.Validate(this.validate, p); err != nil {
		return nil, err
	}
	return p, nil
}

// @Summary Get an imported sheet
// @Tags beneficiaries
// @Produce json
// @Param id path string true "Sheet ID" format(uuid)
// @Success 200 {object} app.BeneficiarySheet
// @Failure 404 {object} http_server.ErrorBody
// @Router /beneficiaries/sheets/{id} [get]
func (this *BeneficiarySheetHttpHandler) get(c fiber.Ctx) error {
	p, err := this.params(c)
	if err != nil {
		return err
	}

	sheet, err := this.service.Get(c.Context(), p.Id)
	if err != nil {
		return err
	}
	return c.JSON(sheet)
}

// @Summary Map of the sheet's beneficiaries
// @Tags beneficiaries
// @Produce html
// @Param id path string true "Sheet ID" format(uuid)
// @Success 200 {string} string "Leaflet page"
// @Router /beneficiaries/sheets/{id}/map [get]
func (this *BeneficiarySheetHttpHandler) renderMap(c fiber.Ctx) error {
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

// @Summary Download the sheet with geocoded coordinates
// @Tags beneficiaries
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Sheet ID" format(uuid)
// @Success 200 {file} file "xlsx workbook"
// @Router /beneficiaries/sheets/{id}/export [get]
func (this *BeneficiarySheetHttpHandler) export(c fiber.Ctx) error {
	p, err := this.params(c)
	if err != nil {
		return err
	}

	sheet, err := this.service.Get(c.Context(), p.Id)
	if err != nil {
		return err
	}
	data, err := this.service.Export(c.Context(), p.Id)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(sheet.FileName, filepath.Ext(sheet.FileName)) + "_geocoded.xlsx"
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(data)
}
