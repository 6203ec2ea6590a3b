package storage

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/plyometrics/forcecloud/internal/client"
	"github.com/plyometrics/forcecloud/internal/table"
)

// isMetricColumn reports whether col belongs to the open metric set rather
// than the structural or housekeeping prefix.
func isMetricColumn(col string) bool {
	if col == ColLastTestTime || col == ColLastSyncTime {
		return false
	}
	return !client.IsStructuralColumn(col)
}

// sheetName derives the spreadsheet sheet for a row: the leading token of
// the segment field, up to the first ':' or '-'. Rows without a segment land
// on a "tests" sheet.
func sheetName(row table.Row) string {
	seg := table.FormatCell(row[client.ColSegment])
	if seg == "" || seg == table.NA {
		return "tests"
	}
	if i := strings.IndexAny(seg, ":-"); i > 0 {
		seg = seg[:i]
	}
	return seg
}

// writeXLSXFile partitions rows into one sheet per test-type prefix. Within
// each sheet, metric columns with no value on any of the sheet's rows are
// dropped.
func writeXLSXFile(path string, tbl *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	bySheet := map[string][]table.Row{}
	var order []string
	for _, row := range tbl.Rows {
		name := sheetName(row)
		if _, ok := bySheet[name]; !ok {
			order = append(order, name)
		}
		bySheet[name] = append(bySheet[name], row)
	}
	if len(order) == 0 {
		order = []string{"tests"}
		bySheet["tests"] = nil
	}

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		rows := bySheet[name]
		cols := sheetColumns(tbl.Columns, rows)

		header := make([]any, len(cols))
		for j, c := range cols {
			header[j] = c
		}
		if err := setRow(f, name, 1, header); err != nil {
			return err
		}
		for r, row := range rows {
			cells := make([]any, len(cols))
			for j, c := range cols {
				cells[j] = cellValue(row[c])
			}
			if err := setRow(f, name, r+2, cells); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

// sheetColumns keeps every structural column and only the metric columns
// with at least one present value across the sheet's rows.
func sheetColumns(all []string, rows []table.Row) []string {
	var cols []string
	for _, c := range all {
		if !isMetricColumn(c) {
			cols = append(cols, c)
			continue
		}
		for _, row := range rows {
			if v, ok := row[c]; ok && v != nil {
				cols = append(cols, c)
				break
			}
		}
	}
	return cols
}

// cellValue maps a table cell onto an excelize cell value. Missing cells
// become the NA marker and booleans go through the text codec so a read-back
// restores the same typed cells; numbers stay numeric.
func cellValue(v any) any {
	switch v.(type) {
	case nil:
		return table.NA
	case bool:
		return table.FormatCell(v)
	default:
		return v
	}
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// readXLSXFile concatenates all sheets back into one table. Each sheet
// carries its own header row; the union of headers rebuilds the column set.
func readXLSXFile(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tbl := table.New()
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		header := rows[0]
		for _, record := range rows[1:] {
			row := make(table.Row, len(header))
			for i, col := range header {
				cell := ""
				if i < len(record) {
					cell = record[i]
				}
				if cell == "" {
					continue
				}
				if v := table.ParseCellFor(col, cell); v != nil {
					row[col] = v
				}
			}
			tbl.Append(row, header...)
		}
	}
	return tbl, nil
}
