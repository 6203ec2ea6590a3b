package storage

import (
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/plyometrics/forcecloud/internal/table"
)

// Parquet schemas are built at runtime from the table's observed columns:
// one optional leaf per column, typed by the first present cell (boolean,
// double, or string). parquet-go orders group fields alphabetically, so the
// column order of a parquet round trip is lexical rather than first-seen.

func parquetSchema(tbl *table.Table) (*parquet.Schema, map[string]string) {
	group := parquet.Group{}
	kinds := make(map[string]string, len(tbl.Columns))
	for _, c := range tbl.Columns {
		kind := "string"
		for _, row := range tbl.Rows {
			switch row[c].(type) {
			case nil:
				continue
			case bool:
				kind = "bool"
			case int64, int:
				kind = "int64"
			case float64:
				kind = "double"
			default:
				kind = "string"
			}
			break
		}
		kinds[c] = kind
		switch kind {
		case "bool":
			group[c] = parquet.Optional(parquet.Leaf(parquet.BooleanType))
		case "int64":
			group[c] = parquet.Optional(parquet.Int(64))
		case "double":
			group[c] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		default:
			group[c] = parquet.Optional(parquet.String())
		}
	}
	return parquet.NewSchema("trials", group), kinds
}

func writeParquetFile(path string, tbl *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	schema, kinds := parquetSchema(tbl)
	w := parquet.NewGenericWriter[map[string]any](f, schema)

	rows := make([]map[string]any, len(tbl.Rows))
	for i, row := range tbl.Rows {
		out := make(map[string]any, len(row))
		for _, c := range tbl.Columns {
			v, ok := row[c]
			if !ok || v == nil {
				continue
			}
			switch kinds[c] {
			case "bool":
				if b, ok := v.(bool); ok {
					out[c] = b
				}
			case "int64":
				out[c] = int64(table.Number(v))
			case "double":
				out[c] = table.Number(v)
			default:
				out[c] = table.FormatCell(v)
			}
		}
		rows[i] = out
	}

	if _, err := w.Write(rows); err != nil {
		f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readParquetFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, err
	}

	r := parquet.NewGenericReader[map[string]any](f, pf.Schema())
	defer r.Close()

	var cols []string
	for _, field := range r.Schema().Fields() {
		cols = append(cols, field.Name())
	}

	tbl := table.New(cols...)
	buf := make([]map[string]any, 64)
	for i := range buf {
		buf[i] = make(map[string]any)
	}
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			row := make(table.Row, len(buf[i]))
			for k, v := range buf[i] {
				if v == nil {
					continue
				}
				row[k] = v
			}
			tbl.Rows = append(tbl.Rows, row)
			buf[i] = make(map[string]any)
		}
		if err != nil {
			break
		}
	}
	return tbl, nil
}
