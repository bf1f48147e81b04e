package beneficiary_sheet_service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/rotisserie/eris"
)

func cell(row []string, report *app.ColumnReport, f app.ColumnField) string {
	idx, ok := report.Index(f)
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// extractBeneficiaries turns data rows into beneficiaries. firstRow is the
// 1-based spreadsheet row of rows[0]. Bad cells become warnings on the report.
func extractBeneficiaries(rows [][]string, firstRow int, report *app.ColumnReport) []app.Beneficiary {
	var out []app.Beneficiary

	for i, row := range rows {
		rowNum := firstRow + i

		name := cell(row, report, app.ColumnName)
		address := cell(row, report, app.ColumnAddress)
		if name == "" && address == "" {
			continue
		}

		b := app.Beneficiary{
			Row:     rowNum,
			Name:    name,
			Address: address,
			Meals:   make([]int, len(report.MealFields)),
		}

		if loc, ok, err := parseLocation(cell(row, report, app.ColumnLatitude), cell(row, report, app.ColumnLongitude)); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("row %d: %v", rowNum, err))
		} else if ok {
			b.Location = loc
		}

		for m, field := range report.MealFields {
			n, err := parseCount(cell(row, report, field))
			if err != nil {
				report.Warnings = append(report.Warnings, fmt.Sprintf("row %d: %s: %v", rowNum, strings.TrimPrefix(string(field), "meal:"), err))
				continue
			}
			b.Meals[m] = n
		}

		out = append(out, b)
	}

	return out
}

// parseLocation returns ok false when either cell is blank.
func parseLocation(latCell, lngCell string) (*app.Coordinates, bool, error) {
	if latCell == "" || lngCell == "" {
		return nil, false, nil
	}

	lat, err := parseFloat(latCell)
	if err != nil {
		return nil, false, eris.Wrapf(err, "invalid latitude %q", latCell)
	}
	lng, err := parseFloat(lngCell)
	if err != nil {
		return nil, false, eris.Wrapf(err, "invalid longitude %q", lngCell)
	}

	c := app.Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return nil, false, eris.Errorf("coordinates %v,%v out of range", lat, lng)
	}

	return &c, true, nil
}

// Accepts a decimal comma, as written by european spreadsheet locales.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
}

// parseCount reads a non-negative whole number. Blank cells count as zero.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	v, err := parseFloat(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Errorf("invalid meal count %q", s)
	}
	if v < 0 || v != math.Trunc(v) {
		return 0, eris.Errorf("meal count must be a whole non-negative number, got %q", s)
	}

	return int(v), nil
}
