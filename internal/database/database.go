// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package database persists ODM datasets in SQLite, using the published
// ODM schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/odm-import/internal/catalog"
	"github.com/pdiddy/odm-import/internal/odm"
)

// DB wraps an ODM SQLite database.
type DB struct {
	db  *sql.DB
	cat *catalog.Catalog
}

// Open opens or creates the database at path and bootstraps the ODM schema.
// cacheDir selects which schema snapshot to use (see catalog.Schema).
func Open(path, cacheDir string, cat *catalog.Catalog) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// The go-sqlite3 driver executes multi-statement scripts in one Exec.
	if _, err := db.Exec(catalog.Schema(cacheDir)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ODM schema: %w", err)
	}

	return &DB{db: db, cat: cat}, nil
}

// Close releases the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// LoadTables reads the named ODM tables (all of them when names is empty)
// into a dataset, casting every column through the variable catalog.
func (d *DB) LoadTables(ctx context.Context, names ...string) (*odm.Dataset, error) {
	infos := make([]odm.TableInfo, 0, len(odm.TableCatalog))
	if len(names) == 0 {
		infos = append(infos, odm.TableCatalog...)
	} else {
		for _, name := range names {
			info, ok := odm.InfoFor(name)
			if !ok {
				return nil, fmt.Errorf("unknown ODM table %q", name)
			}
			infos = append(infos, info)
		}
	}

	ds := odm.NewDataset()
	for _, info := range infos {
		t, err := d.loadTable(ctx, info)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", info.OdmName, err)
		}
		if t.Len() == 0 {
			continue
		}
		if err := ds.Append(info.Key, t); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (d *DB) loadTable(ctx context.Context, info odm.TableInfo) (*odm.Table, error) {
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, info.OdmName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	t := odm.NewTable(info.OdmName, cols...)
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(odm.Row, len(cols))
		for i, c := range cols {
			row[c] = d.castStored(info.OdmName, c, cells[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

// castStored normalizes a stored SQL value through the catalog. SQLite is
// loosely typed, so text goes back through the full casting path and
// numerics only need the boolean columns folded back from 0/1.
func (d *DB) castStored(table, column string, v any) any {
	switch c := v.(type) {
	case nil:
		return nil
	case []byte:
		return d.cat.CastCell(table, column, string(c))
	case string:
		return d.cat.CastCell(table, column, c)
	case int64:
		if d.cat.Kind(table, column) == catalog.KindBool {
			return c != 0
		}
		return float64(c)
	case float64:
		return c
	case bool:
		return c
	case time.Time:
		return c.UTC()
	default:
		return nil
	}
}

// SaveDataset upserts every populated table of the dataset.
func (d *DB) SaveDataset(ctx context.Context, ds *odm.Dataset) error {
	for _, key := range ds.Populated() {
		info, _ := odm.InfoFor(key)
		if err := d.SaveTable(ctx, info, ds.Table(key)); err != nil {
			return err
		}
	}
	return nil
}

// SaveTable upserts a table's rows. Rows replace existing ones sharing the
// same primary key, so re-running an import converges instead of piling up.
func (d *DB) SaveTable(ctx context.Context, info odm.TableInfo, t *odm.Table) error {
	if t.Len() == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	quoted := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		quoted[i] = `"` + c + `"`
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`REPLACE INTO "%s" (%s) VALUES (%s)`,
		info.OdmName, strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", info.OdmName, err)
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		args := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			args[j] = storedValue(row[c])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting %s row %d: %w", info.OdmName, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", info.OdmName, err)
	}
	return nil
}

// storedValue converts a cell to its SQL representation: RFC 3339 text for
// timestamps, 0/1 for booleans, NULL for missing values.
func storedValue(v any) any {
	switch c := v.(type) {
	case nil:
		return nil
	case time.Time:
		return c.UTC().Format(time.RFC3339)
	case bool:
		if c {
			return 1
		}
		return 0
	case string:
		if c == "" {
			return nil
		}
		return c
	default:
		return c
	}
}
