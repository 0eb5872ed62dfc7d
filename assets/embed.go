// Package assets holds files compiled into the binary: the default catalog
// and the SQL migrations for the catalog database.
package assets

import "embed"

// CatalogFile is the name of the embedded default catalog.
const CatalogFile = "catalog.yaml"

// MigrationsGlob matches the embedded migration scripts.
const MigrationsGlob = "sql/*.sql"

//go:embed catalog.yaml sql/*.sql
var FS embed.FS
