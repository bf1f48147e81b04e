package bootstrap

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/rotisserie/eris"
	"go.uber.org/fx"
)

// ImportOnStart processes the workbook at IMPORT_PATH once the app is up and
// writes the geocoded workbook and its map next to each other in the output
// directory.
func ImportOnStart(lc fx.Lifecycle, cfg *config.Config, sheets app.BeneficiarySheetService, log *slog.Logger) {
	if cfg.Import.Path == "" {
		return
	}

	var r = importRunner{sheets: sheets, outDir: cfg.Import.OutDir, log: log}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := r.run(context.Background(), cfg.Import.Path); err != nil {
					log.Error("Import failed", "path", cfg.Import.Path, "error", err)
				}
			}()
			return nil
		},
	})
}

type importRunner struct {
	sheets app.BeneficiarySheetService
	outDir string
	log    *slog.Logger
}

// run imports one workbook and writes its outputs.
func (this *importRunner) run(ctx context.Context, inputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return eris.Wrap(err, "read import file")
	}

	filename := filepath.Base(inputPath)
	res, err := this.sheets.Import(ctx, filename, data, app.ImportOptions{Geocode: true})
	if err != nil {
		return err
	}
	if res.Sheet == nil {
		for _, s := range res.Columns.Suggestions {
			this.log.Warn("Column suggestion", "field", s.Field, "header", s.Header, "score", s.Score, "source", s.Source)
		}
		return eris.Errorf("required columns missing: %v", res.Columns.Missing)
	}

	for _, f := range res.Sheet.Failures {
		this.log.Warn("Geocoding failure", "row", f.Row, "address", f.Address, "reason", f.Reason)
	}

	if err := os.MkdirAll(this.outDir, os.ModePerm); err != nil {
		return eris.Wrap(err, "create output dir")
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename))

	workbook, err := this.sheets.Export(ctx, res.Sheet.ID)
	if err != nil {
		return err
	}
	workbookPath := filepath.Join(this.outDir, name+"_geocoded.xlsx")
	if err := os.WriteFile(workbookPath, workbook, 0o644); err != nil {
		return eris.Wrap(err, "write workbook")
	}

	page, err := this.sheets.RenderMap(ctx, res.Sheet.ID)
	if err != nil {
		return err
	}
	mapPath := filepath.Join(this.outDir, name+"_map.html")
	if err := os.WriteFile(mapPath, page, 0o644); err != nil {
		return eris.Wrap(err, "write map")
	}

	this.log.Info("Import written",
		"sheet_id", res.Sheet.ID,
		"workbook", workbookPath,
		"map", mapPath,
	)
	return nil
}
