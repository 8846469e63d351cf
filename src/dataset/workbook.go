package dataset

import (
	"github.com/xuri/excelize/v2"
)

// loadWorkbook reads the first sheet of an .xlsx export with the same header conventions as
// the delimited loader.
func loadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Msg: "open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, loadErrorf(path, nil, "workbook has no sheets")
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &LoadError{Path: path, Msg: "read sheet " + sheets[0], Err: err}
	}
	return tableFromGrid(grid, path)
}

func tableFromGrid(grid [][]string, name string) (*Table, error) {
	if len(grid) == 0 {
		return nil, loadErrorf(name, nil, "sheet is empty")
	}
	header := grid[0]
	if len(header) < 2 {
		return nil, loadErrorf(name, nil, "sheet has a single column")
	}
	rows := make([]Row, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		// GetRows drops trailing empty cells; pad so positions line up with the header
		if len(cells) < len(header) {
			padded := make([]string, len(header))
			copy(padded, cells)
			cells = padded
		}
		rows = append(rows, Row{Record: i + 1, Cells: cells})
	}
	return NewTable(header, rows), nil
}
