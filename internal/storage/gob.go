package storage

import (
	"compress/gzip"
	"encoding/gob"
	"io"
	"os"

	"github.com/plyometrics/forcecloud/internal/table"
)

// gobTable is the on-disk shape of the generic serialized-table format.
type gobTable struct {
	Columns []string
	Rows    []map[string]any
}

func init() {
	// Cell types carried through the any-valued rows.
	gob.Register("")
	gob.Register(true)
	gob.Register(int64(0))
	gob.Register(float64(0))
}

func writeGobFile(path string, tbl *table.Table, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(f)
		w = gz
	}

	gt := gobTable{Columns: tbl.Columns, Rows: make([]map[string]any, len(tbl.Rows))}
	for i, r := range tbl.Rows {
		gt.Rows[i] = r
	}
	if err := gob.NewEncoder(w).Encode(gt); err != nil {
		f.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

func readGobFile(path string, compressed bool) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	var gt gobTable
	if err := gob.NewDecoder(r).Decode(&gt); err != nil {
		return nil, err
	}

	tbl := table.New(gt.Columns...)
	tbl.Rows = make([]table.Row, len(gt.Rows))
	for i, r := range gt.Rows {
		tbl.Rows[i] = r
	}
	return tbl, nil
}
