// Package migrations holds the bun migration registry for the deckapi schema.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registry consumed by the db CLI commands.
var Migrations = migrate.NewMigrations()
