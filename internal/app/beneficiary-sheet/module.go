package beneficiary_sheet_module

import (
	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/meal-routes/domain/app"
	beneficiary_sheet_service "github.com/init-pkg/meal-routes/internal/app/beneficiary-sheet/service"
	beneficiary_sheet_http_handler "github.com/init-pkg/meal-routes/internal/app/beneficiary-sheet/transports/http"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(beneficiary_sheet_service.New, fx.As(new(app.BeneficiarySheetService))),
			beneficiary_sheet_http_handler.New,
		),
		fx.Invoke(func(h *beneficiary_sheet_http_handler.BeneficiarySheetHttpHandler, mainApp *fiber.App) {
			h.Register(mainApp)
		}),
	)
}
