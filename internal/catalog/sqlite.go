// internal/catalog/sqlite.go
//
// SQLite-backed catalog source.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Reading a Catalog from the attributes/creatures/creature_values tables.
//   - Importing a Catalog into an empty database (first-run seeding).

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pokedetective/assets"
)

// OpenDB opens (and creates if missing) a SQLite database file.
// ":memory:" is supported and pinned to a single connection so every query
// sees the same database.
func OpenDB(dsn string) (*sql.DB, error) {
	if dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded sql/*.sql scripts in lexical order, skipping
// those already recorded in _migrations. Each script runs in its own transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(assets.FS, assets.MigrationsGlob)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := fs.ReadFile(assets.FS, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// CountSQL returns the number of creatures stored in db.
func CountSQL(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM creatures`).Scan(&n)
	return n, err
}

// LoadSQL reads the whole catalog from db and validates it with New.
func LoadSQL(ctx context.Context, db *sql.DB) (*Catalog, error) {
	schema, err := loadSchema(ctx, db)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, name FROM creatures ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query creatures: %w", err)
	}
	type head struct {
		id   int
		name string
	}
	var heads []head
	for rows.Next() {
		var h head
		if err := rows.Scan(&h.id, &h.name); err != nil {
			rows.Close()
			return nil, err
		}
		heads = append(heads, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	raw := make(map[int]map[string][]string, len(heads))
	vrows, err := db.QueryContext(ctx, `SELECT creature_id, attribute, value FROM creature_values ORDER BY creature_id, attribute, ord`)
	if err != nil {
		return nil, fmt.Errorf("query creature_values: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		var (
			id         int
			attr, text string
		)
		if err := vrows.Scan(&id, &attr, &text); err != nil {
			return nil, err
		}
		if raw[id] == nil {
			raw[id] = make(map[string][]string)
		}
		raw[id][attr] = append(raw[id][attr], text)
	}
	if err := vrows.Err(); err != nil {
		return nil, err
	}

	creatures := make([]Creature, 0, len(heads))
	for _, h := range heads {
		attrs := make(map[string]Value, len(schema))
		for name, texts := range raw[h.id] {
			a, ok := schema.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("catalog: creature %q has unknown attribute %q", h.name, name)
			}
			v, err := sqlValue(a.Kind, texts)
			if err != nil {
				return nil, fmt.Errorf("catalog: creature %q attribute %q: %w", h.name, name, err)
			}
			attrs[name] = v
		}
		creatures = append(creatures, NewCreature(h.id, h.name, attrs))
	}
	return New(schema, creatures)
}

func loadSchema(ctx context.Context, db *sql.DB) (Schema, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, label, kind FROM attributes ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query attributes: %w", err)
	}
	defer rows.Close()
	var schema Schema
	for rows.Next() {
		var name, label, kind string
		if err := rows.Scan(&name, &label, &kind); err != nil {
			return nil, err
		}
		k, err := ParseKind(kind)
		if err != nil {
			return nil, err
		}
		schema = append(schema, Attribute{Name: name, Label: label, Kind: k})
	}
	return schema, rows.Err()
}

func sqlValue(k Kind, texts []string) (Value, error) {
	switch k {
	case KindSet:
		return SetOf(texts...), nil
	case KindOrdinal:
		if len(texts) != 1 {
			return Value{}, fmt.Errorf("ordinal has %d values", len(texts))
		}
		n, err := strconv.Atoi(texts[0])
		if err != nil {
			return Value{}, err
		}
		return Ordinal(n), nil
	default:
		if len(texts) != 1 {
			return Value{}, fmt.Errorf("single value has %d values", len(texts))
		}
		return Single(texts[0]), nil
	}
}

// ImportSQL writes cat into db in one transaction. The tables must be empty.
func ImportSQL(ctx context.Context, db *sql.DB, cat *Catalog) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i, a := range cat.schema {
		if _, err := tx.ExecContext(ctx, `INSERT INTO attributes (position, name, label, kind) VALUES (?,?,?,?)`,
			i, a.Name, a.Label, a.Kind.String()); err != nil {
			return fmt.Errorf("insert attribute %q: %w", a.Name, err)
		}
	}
	for pos, cr := range cat.creatures {
		if _, err := tx.ExecContext(ctx, `INSERT INTO creatures (id, name, position) VALUES (?,?,?)`,
			cr.ID, cr.Name, pos); err != nil {
			return fmt.Errorf("insert creature %q: %w", cr.Name, err)
		}
		for _, a := range cat.schema {
			v := cr.attrs[a.Name]
			texts := []string{v.String()}
			if a.Kind == KindSet {
				texts = v.Set
			}
			for ord, text := range texts {
				if _, err := tx.ExecContext(ctx, `INSERT INTO creature_values (creature_id, attribute, ord, value) VALUES (?,?,?,?)`,
					cr.ID, a.Name, ord, text); err != nil {
					return fmt.Errorf("insert value %s.%s: %w", cr.Name, a.Name, err)
				}
			}
		}
	}
	return tx.Commit()
}
