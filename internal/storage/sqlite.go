package storage

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/plyometrics/forcecloud/internal/table"
)

// The sqlite format stores the table as one "trials" table with every column
// TEXT-typed through the FormatCell/ParseCell codec. The column set is
// data-dependent, so the schema is created per write.

func quoteIdent(c string) string {
	return `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
}

func writeSQLiteFile(path string, tbl *table.Table) error {
	// Recreate from scratch: the persisted file is a snapshot, not a log.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	defs := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		def := quoteIdent(c) + " TEXT"
		if c == "id" {
			def += " PRIMARY KEY"
		}
		defs[i] = def
	}
	if _, err := db.Exec("CREATE TABLE trials (" + strings.Join(defs, ", ") + ")"); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	quoted := make([]string, len(tbl.Columns))
	marks := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}
	insert := "INSERT INTO trials (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return err
	}
	for _, row := range tbl.Rows {
		args := make([]any, len(tbl.Columns))
		for i, c := range tbl.Columns {
			args[i] = table.FormatCell(row[c])
		}
		if _, err := stmt.Exec(args...); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("insert row: %w", err)
		}
	}
	stmt.Close()
	return tx.Commit()
}

func readSQLiteFile(path string) (*table.Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT * FROM trials")
	if err != nil {
		return nil, fmt.Errorf("select trials: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	tbl := table.New(cols...)
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		args := make([]any, len(cols))
		for i := range cells {
			args[i] = &cells[i]
		}
		if err := rows.Scan(args...); err != nil {
			return nil, err
		}
		row := make(table.Row, len(cols))
		for i, c := range cols {
			if !cells[i].Valid {
				continue
			}
			if v := table.ParseCellFor(c, cells[i].String); v != nil {
				row[c] = v
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tbl, nil
}
