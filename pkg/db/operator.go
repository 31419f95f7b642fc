package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the pgxpool.Pool for
// high-level lifecycle components (SchemaManager, Loader, Annotator) to
// execute their specialized SQL operations internally.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool for high-level components to execute
	// specialized SQL operations.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if any ClinVar pipeline table exists.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// MissingTables returns the pipeline tables that are not created yet.
	// Migrate reports them before adding them.
	MissingTables(ctx context.Context) ([]string, error)

	// DropPipelineTables drops the ClinVar pipeline tables. Tables of
	// other pipelines sharing the database are kept.
	DropPipelineTables(ctx context.Context) error
}
