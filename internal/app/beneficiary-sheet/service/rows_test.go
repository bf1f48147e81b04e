package beneficiary_sheet_service

import (
	"testing"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{" 3 ", 3, false},
		{"2.0", 2, false},
		{"2,0", 2, false},
		{"1.5", 0, true},
		{"-1", 0, true},
		{"two", 0, true},
		{"NaN", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocation(t *testing.T) {
	loc, ok, err := parseLocation("51,5", "-0.12")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, app.Coordinates{Lat: 51.5, Lng: -0.12}, *loc)

	_, ok, err = parseLocation("", "-0.12")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = parseLocation("abc", "1")
	assert.Error(t, err)

	_, _, err = parseLocation("91", "1")
	assert.Error(t, err)

	_, _, err = parseLocation("0", "0")
	assert.Error(t, err)
}

func TestExtractBeneficiaries(t *testing.T) {
	report := &app.ColumnReport{
		Columns: map[app.ColumnField]int{
			app.ColumnName:       0,
			app.ColumnAddress:    1,
			app.ColumnLatitude:   2,
			app.ColumnLongitude:  3,
			app.MealField("std"): 4,
		},
		MealFields: []app.ColumnField{app.MealField("std"), app.MealField("veg")},
	}
	rows := [][]string{
		{"Ann", "1 Main St", "bad", "1", "2"},
		{"", "", "", "", ""},
		{"Bob", "", "", "", ""},
		{"Cid"},
	}

	got := extractBeneficiaries(rows, 5, report)

	require.Len(t, got, 3)
	assert.Equal(t, 5, got[0].Row)
	assert.Nil(t, got[0].Location)
	assert.Equal(t, []int{2, 0}, got[0].Meals)
	assert.Equal(t, 7, got[1].Row)
	assert.Equal(t, 8, got[2].Row)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "row 5")
}

func TestGetFilledGrid_MergedTitle(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Delivery week 12"))
	require.NoError(t, f.MergeCell("Sheet1", "A1", "C1"))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{" Beneficiary Name ", "Address", "Standard Meals"}))

	grid, err := getFilledGrid(f, "Sheet1")
	require.NoError(t, err)

	assert.Equal(t, []string{"Delivery week 12", "Delivery week 12", "Delivery week 12"}, grid[0])
	assert.Equal(t, "Beneficiary Name", grid[1][0])
	assert.Equal(t, 1, findHeaderRow(grid))
}

func TestFindHeaderRow_None(t *testing.T) {
	assert.Equal(t, -1, findHeaderRow(nil))
	assert.Equal(t, -1, findHeaderRow([][]string{{"only"}, {"", ""}}))
}
