package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Open picks the catalog source the way the binaries are configured:
//  1. dsn set:  SQLite database, seeded from file (or the embedded catalog) when empty.
//  2. file set: YAML document on disk.
//  3. neither:  the embedded catalog.
func Open(ctx context.Context, file, dsn string) (*Catalog, error) {
	if dsn == "" {
		if file != "" {
			return LoadFile(file)
		}
		return Default()
	}

	db, err := OpenDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	defer db.Close()

	if err := Migrate(ctx, db); err != nil {
		return nil, err
	}
	n, err := CountSQL(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("count creatures: %w", err)
	}
	if n == 0 {
		seed, err := Open(ctx, file, "")
		if err != nil {
			return nil, fmt.Errorf("load seed catalog: %w", err)
		}
		if err := ImportSQL(ctx, db, seed); err != nil {
			return nil, fmt.Errorf("seed catalog db: %w", err)
		}
		log.Info().Str("db", dsn).Int("creatures", seed.Len()).Msg("seeded catalog database")
	}
	return LoadSQL(ctx, db)
}
