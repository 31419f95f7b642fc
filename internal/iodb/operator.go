// Package iodb implements database operations using pgxpool.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/db"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/schema"
)

// AppName identifies pipeline sessions in pg_stat_activity.
const AppName = "clinvar-pipeline"

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool *pgxpool.Pool
}

// maxConns is the upper limit of pooled connections.
var maxConns = runtime.NumCPU() + 2

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// Workers of load and annotate runs each hold a connection
	// while reconciling one record.
	poolConfig.MaxConns = int32(max(maxConns, 4))
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0
	poolConfig.ConnConfig.RuntimeParams["application_name"] = AppName

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	return nil
}

func dsn(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// Pool returns the underlying pgxpool.Pool for advanced
// operations.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// TableExists checks if a table exists in the current
// database.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}

// HasTables checks if any of the ClinVar pipeline tables exist.
// Tables of other pipelines sharing the database are ignored.
func (p *pgxOperator) HasTables(
	ctx context.Context,
) (bool, error) {
	missing, err := p.MissingTables(ctx)
	if err != nil {
		return false, err
	}
	return len(missing) < len(schema.Tables()), nil
}

// MissingTables returns the pipeline tables absent from the public
// schema, in the order of schema.Tables.
func (p *pgxOperator) MissingTables(
	ctx context.Context,
) ([]string, error) {
	if p.pool == nil {
		return nil, NotConnectedError()
	}

	query := `
		SELECT t.name
		FROM unnest($1::text[]) WITH ORDINALITY AS t(name, pos)
		WHERE NOT EXISTS (
			SELECT FROM information_schema.tables i
			WHERE i.table_schema = 'public'
			AND i.table_name = t.name
		)
		ORDER BY t.pos
	`

	rows, err := p.pool.Query(ctx, query, schema.Tables())
	if err != nil {
		return nil, QueryTablesError(err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, ScanTableError(err)
		}
		res = append(res, name)
	}
	if err := rows.Err(); err != nil {
		return nil, ScanTableError(err)
	}
	return res, nil
}

// DropPipelineTables drops the ClinVar pipeline tables, dependent
// tables first. Other tables of the public schema are kept.
func (p *pgxOperator) DropPipelineTables(ctx context.Context) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	tables := schema.Tables()
	slices.Reverse(tables)
	for _, table := range tables {
		dropSQL := fmt.Sprintf(
			"DROP TABLE IF EXISTS %s CASCADE", table)
		if _, err := p.pool.Exec(ctx, dropSQL); err != nil {
			return DropTableError(table, err)
		}
	}

	return nil
}
