package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/plyometrics/forcecloud/internal/table"
)

// WriteCSV writes the table as delimited text: a header row of column names
// followed by one record per row. Missing cells render as NA.
func WriteCSV(w io.Writer, tbl *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Columns); err != nil {
		return err
	}
	record := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows {
		for i, col := range tbl.Columns {
			record[i] = table.FormatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV, restoring typed cells with
// table.ParseCell.
func ReadCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	tbl := table.New(header...)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(table.Row, len(header))
		for i, col := range header {
			if v := table.ParseCellFor(col, record[i]); v != nil {
				row[col] = v
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

func writeCSVFile(path string, tbl *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, tbl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readCSVFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
