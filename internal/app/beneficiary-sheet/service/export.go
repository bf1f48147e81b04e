package beneficiary_sheet_service

import (
	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Beneficiaries"

// BuildWorkbook writes the sheet back as xlsx with geocoded coordinates
// filled in. Header cells reuse the uploaded header text, or the configured
// target for columns the upload lacked, so the file can be imported again.
func BuildWorkbook(sheet *app.BeneficiarySheet, headers app.HeaderMappingService) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, eris.Wrap(err, "rename sheet")
	}

	header := []interface{}{
		headerText(sheet, headers, app.ColumnName),
		headerText(sheet, headers, app.ColumnAddress),
		headerText(sheet, headers, app.ColumnLatitude),
		headerText(sheet, headers, app.ColumnLongitude),
	}
	for _, option := range sheet.MealOptions {
		header = append(header, headerText(sheet, headers, app.MealField(option)))
	}
	header = append(header, "Formatted Address", "Geocoded")

	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, eris.Wrap(err, "write header")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, eris.Wrap(err, "header style")
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return nil, eris.Wrap(err, "header style")
	}

	for i, b := range sheet.Beneficiaries {
		row := []interface{}{b.Name, b.Address, nil, nil}
		if b.Location != nil {
			row[2], row[3] = b.Location.Lat, b.Location.Lng
		}
		for m := range sheet.MealOptions {
			n := 0
			if m < len(b.Meals) {
				n = b.Meals[m]
			}
			row = append(row, n)
		}
		row = append(row, b.FormattedAddress, b.Geocoded)

		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, eris.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(exportSheet, axis, &row); err != nil {
			return nil, eris.Wrapf(err, "write row %d", b.Row)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, eris.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func headerText(sheet *app.BeneficiarySheet, headers app.HeaderMappingService, field app.ColumnField) string {
	if r := sheet.Columns; r != nil {
		if idx, ok := r.Index(field); ok && idx < len(r.Header) {
			return r.Header[idx]
		}
	}
	if target := headers.Target(field); target != "" {
		return target
	}
	if field.IsMeal() {
		return field.MealOption()
	}
	return string(field)
}
