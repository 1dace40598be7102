package cli

import (
	"fmt"

	"github.com/mrlokans/kosync/internal/config"
	"github.com/mrlokans/kosync/internal/database"
)

// operator is the identity CLI commands act as. It carries administrator
// rights without corresponding to a stored account.
const operator = "cli"

// openDatabase connects to the configured store. A non-empty path overrides
// the sqlite location from the environment.
func openDatabase(cfg *config.Config, path string) (*database.Database, error) {
	dbCfg := cfg.Database
	if path != "" {
		dbCfg.Driver = config.DatabaseDriverSQLite
		dbCfg.Path = path
	}

	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
