package beneficiary_sheet_service

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// getFilledGrid reads a sheet into a rectangular grid of trimmed values.
// Every cell of a merged range carries the range value.
func getFilledGrid(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	maxCol := 0
	for _, row := range rows {
		maxCol = max(maxCol, len(row))
	}

	grid := make([][]string, len(rows))
	for i := range grid {
		grid[i] = make([]string, maxCol)
		for j, cell := range rows[i] {
			grid[i][j] = strings.TrimSpace(cell)
		}
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}
	for _, merge := range merges {
		val := strings.TrimSpace(merge.GetCellValue())

		startCol, startRow, err := excelize.CellNameToCoordinates(merge.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(merge.GetEndAxis())
		if err != nil {
			continue
		}

		for r := startRow - 1; r < endRow && r < len(grid); r++ {
			for c := startCol - 1; c < endCol && c < maxCol; c++ {
				grid[r][c] = val
			}
		}
	}

	return grid, nil
}

// distinctInRow counts different non-empty values. A merged title spread
// over the row counts once.
func distinctInRow(row []string) int {
	seen := make(map[string]struct{}, len(row))
	for _, cell := range row {
		if cell != "" {
			seen[cell] = struct{}{}
		}
	}
	return len(seen)
}

// findHeaderRow returns the first row with at least two different values.
// Title rows above the table usually hold a single value.
func findHeaderRow(grid [][]string) int {
	for i, row := range grid {
		if distinctInRow(row) >= 2 {
			return i
		}
	}
	return -1
}

// firstDataSheet picks the first sheet that has a header row.
func firstDataSheet(f *excelize.File) (string, [][]string, int, error) {
	for _, sheet := range f.GetSheetList() {
		grid, err := getFilledGrid(f, sheet)
		if err != nil {
			return "", nil, 0, err
		}
		if h := findHeaderRow(grid); h >= 0 {
			return sheet, grid, h, nil
		}
	}
	return "", nil, -1, nil
}
