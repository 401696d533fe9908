package common

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/netly-dev/gobid/internal/database"
)

// StorageResult holds the open database handle and the project
// repository built on it. Close the handle when the command is done.
type StorageResult struct {
	DB         *sqlx.DB
	Repository *database.ProjectRepository
}

// CreateStorage opens the database, applies the schema, and builds the
// project repository in one call. This consolidates the common pattern
// used across all commands.
func CreateStorage(ctx context.Context, deps CommandDeps) (*StorageResult, error) {
	db, err := database.NewPostgresConnection(database.Config{
		Host:     deps.Config.Database.Host,
		Port:     deps.Config.Database.Port,
		User:     deps.Config.Database.User,
		Password: deps.Config.Database.Password,
		DBName:   deps.Config.Database.DBName,
		SSLMode:  deps.Config.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &StorageResult{
		DB:         db,
		Repository: database.NewProjectRepository(db, deps.Logger),
	}, nil
}
