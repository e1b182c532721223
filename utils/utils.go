// Package utils contains the utility packages
package utils

import (
	"flag"
	"os"

	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
)

// CheckForMigrations runs the schema migration and exits when the server is
// started with the -migrate flag
func CheckForMigrations(c *connect.Connector, env *config.Env) {
	enableMigrations := flag.Bool("migrate", false, "Migrate the schema to the relational database")
	flag.Parse()

	if enableMigrations != nil && *enableMigrations {
		c.MigrateSchemaChanges(env)
		os.Exit(0)
	}
}
