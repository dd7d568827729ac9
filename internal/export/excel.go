package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Column describes one spreadsheet column.
type Column struct {
	Header string
	Width  float64
}

// Sheet builds a styled single-worksheet report: bold white-on-blue header,
// thin borders on every cell, autofilter over the header row. All exports
// share this so they look the same.
type Sheet struct {
	file        *excelize.File
	name        string
	cols        []Column
	nextRow     int
	headerStyle int
	cellStyle   int
}

func NewSheet(name string, cols []Column) (*Sheet, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, name); err != nil {
		return nil, err
	}

	border := []excelize.Border{
		{Type: "top", Style: 1},
		{Type: "left", Style: 1},
		{Type: "bottom", Style: 1},
		{Type: "right", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Vertical:   "center",
			Horizontal: "center",
		},
		Border: border,
	})
	if err != nil {
		return nil, err
	}

	cellStyle, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return nil, err
	}

	s := &Sheet{
		file:        f,
		name:        name,
		cols:        cols,
		nextRow:     2,
		headerStyle: headerStyle,
		cellStyle:   cellStyle,
	}

	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(name, cell, col.Header); err != nil {
			return nil, err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(name, colName, colName, col.Width); err != nil {
			return nil, err
		}
	}

	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := f.SetCellStyle(name, first, last, headerStyle); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Sheet) AddRow(values ...interface{}) error {
	if len(values) > len(s.cols) {
		return fmt.Errorf("row has %d values for %d columns", len(values), len(s.cols))
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, s.nextRow)
		if err != nil {
			return err
		}
		if err := s.file.SetCellValue(s.name, cell, v); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, s.nextRow)
	last, _ := excelize.CoordinatesToCellName(len(s.cols), s.nextRow)
	if err := s.file.SetCellStyle(s.name, first, last, s.cellStyle); err != nil {
		return err
	}
	s.nextRow++
	return nil
}

// WriteTo finalizes the autofilter and streams the workbook.
func (s *Sheet) WriteTo(w io.Writer) (int64, error) {
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(s.cols), 1)
	if err := s.file.AutoFilter(s.name, fmt.Sprintf("%s:%s", first, last), nil); err != nil {
		return 0, err
	}
	return s.file.WriteTo(w)
}

// ContentType is the MIME type for generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
