package knowledge

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrSource indicates the source file could not be read at the row-scan
// level. Distinct from a row failing validation, which is a silent skip.
var ErrSource = errors.New("unreadable knowledge source")

// LoadXLSX reads the first sheet of an Excel workbook into ordered rows.
// The first row is treated as a header and dropped, so row numbers assigned
// by the parser are 1-based over data rows, matching the source spreadsheet
// minus its header.
func LoadXLSX(path string) ([]RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrSource, path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrSource, path)
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %w", ErrSource, sheets[0], err)
	}

	if len(cells) <= 1 {
		return nil, nil
	}

	rows := make([]RawRow, 0, len(cells)-1)
	for _, r := range cells[1:] {
		rows = append(rows, RawRow(r))
	}
	return rows, nil
}
