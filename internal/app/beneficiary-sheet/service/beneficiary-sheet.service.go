package beneficiary_sheet_service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/init-pkg/meal-routes/domain/app"
	map_render_service "github.com/init-pkg/meal-routes/internal/app/map-render/service"
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

type BeneficiarySheetService struct {
	headers  app.HeaderMappingService
	geocoder app.Geocoder
	repo     app.SheetRepository
	maps     *map_render_service.MapRenderService
	log      *slog.Logger
}

var _ app.BeneficiarySheetService = &BeneficiarySheetService{}

func New(
	headers app.HeaderMappingService,
	geocoder app.Geocoder,
	repo app.SheetRepository,
	maps *map_render_service.MapRenderService,
	log *slog.Logger,
) *BeneficiarySheetService {
	return &BeneficiarySheetService{
		headers:  headers,
		geocoder: geocoder,
		repo:     repo,
		maps:     maps,
		log:      log,
	}
}

// Import parses an uploaded workbook. A sheet whose required columns are
// missing is not stored; the result then only carries the column report.
func (this *BeneficiarySheetService) Import(
	ctx context.Context,
	fileName string,
	file []byte,
	opts app.ImportOptions,
) (*app.ImportResult, error) {
	this.log.Info("Beneficiary import started", "file", fileName, "size", len(file))

	f, err := excelize.OpenReader(bytes.NewReader(file))
	if err != nil {
		return nil, eris.Wrapf(app.ErrInvalidRequest, "open workbook: %v", err)
	}
	defer f.Close()

	sheetName, grid, headerRow, err := firstDataSheet(f)
	if err != nil {
		return nil, eris.Wrap(err, "read workbook")
	}
	if headerRow < 0 {
		return nil, eris.Wrap(app.ErrInvalidRequest, "workbook has no table")
	}

	report := this.headers.Resolve(ctx, grid[headerRow])
	if !report.Valid() {
		return &app.ImportResult{Columns: report}, nil
	}

	// header is grid[headerRow], so data starts two spreadsheet rows below its index
	beneficiaries := extractBeneficiaries(grid[headerRow+1:], headerRow+2, report)

	sheet := &app.BeneficiarySheet{
		ID:            uuid.NewString(),
		FileName:      fileName,
		SheetName:     sheetName,
		MealOptions:   this.headers.MealOptions(),
		Columns:       report,
		Beneficiaries: beneficiaries,
		CreatedAt:     time.Now().UTC(),
	}

	if opts.Geocode {
		failures, err := this.geocodeMissing(ctx, sheet.Beneficiaries)
		if err != nil {
			return nil, err
		}
		sheet.Failures = failures
	}

	if err := this.repo.SaveSheet(ctx, sheet); err != nil {
		return nil, eris.Wrap(err, "save sheet")
	}

	this.log.Info("Beneficiary import finished",
		"sheet_id", sheet.ID,
		"rows", len(sheet.Beneficiaries),
		"located", len(sheet.Located()),
		"failures", len(sheet.Failures),
	)

	return &app.ImportResult{Columns: report, Sheet: sheet}, nil
}

// geocodeMissing fills Location for rows without coordinates. Only cancellation
// of ctx aborts; provider timeouts and every other error are recorded per row
// with a fixed reason.
func (this *BeneficiarySheetService) geocodeMissing(ctx context.Context, bs []app.Beneficiary) ([]app.GeocodeFailure, error) {
	var failures []app.GeocodeFailure

	for i := range bs {
		b := &bs[i]
		if b.Location != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "geocoding interrupted")
		}

		if strings.TrimSpace(b.Address) == "" {
			failures = append(failures, app.GeocodeFailure{Row: b.Row, Reason: "address is empty"})
			continue
		}

		place, err := this.geocoder.Geocode(ctx, b.Address)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, eris.Wrap(ctxErr, "geocoding interrupted")
			}
			if errors.Is(err, context.Canceled) {
				return nil, eris.Wrap(err, "geocoding interrupted")
			}
			this.log.Debug("Geocoding failed", "row", b.Row, "address", b.Address, "error", err)
			failures = append(failures, app.GeocodeFailure{Row: b.Row, Address: b.Address, Reason: failureReason(err)})
			continue
		}

		loc := place.Location
		b.Location = &loc
		b.FormattedAddress = place.FormattedAddress
		b.Geocoded = true
	}

	return failures, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, app.ErrNoCandidates):
		return app.ErrNoCandidates.Error()
	case errors.Is(err, app.ErrNoGeocoder):
		return app.ErrNoGeocoder.Error()
	case errors.Is(err, app.ErrGeocodeRequestFailed):
		return app.ErrGeocodeRequestFailed.Error()
	default:
		return "geocoding failed"
	}
}

func (this *BeneficiarySheetService) Get(ctx context.Context, id string) (*app.BeneficiarySheet, error) {
	return this.repo.FindSheet(ctx, id)
}

func (this *BeneficiarySheetService) Export(ctx context.Context, id string) ([]byte, error) {
	sheet, err := this.repo.FindSheet(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildWorkbook(sheet, this.headers)
}

func (this *BeneficiarySheetService) RenderMap(ctx context.Context, id string) ([]byte, error) {
	sheet, err := this.repo.FindSheet(ctx, id)
	if err != nil {
		return nil, err
	}
	return this.maps.RenderBeneficiaries(sheet)
}
