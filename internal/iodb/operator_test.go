package iodb_test

import (
	"context"
	"testing"

	"github.com/rat-genome-database/clinvar-pipeline/internal/iodb"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These are integration tests that require PostgreSQL. They are skipped
// with -short and when the test database is not reachable.
//
// Connection settings come from CLINVAR_DATABASE_* environment variables
// or built-in defaults (postgres/postgres). The database name is always
// forced to "clinvar_test".

func TestPgxOperator_Connect(t *testing.T) {
	iotesting.RequireDatabase(t)

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err, "Connect should succeed with valid config")

	defer op.Close()

	// Verify connection works by checking if we can query tables
	exists, err := op.TableExists(ctx, "nonexistent_table")
	assert.NoError(t, err, "Should be able to execute commands after Connect")
	assert.False(t, exists)
}

func TestPgxOperator_Connect_InvalidHost(t *testing.T) {
	iotesting.RequireDatabase(t)

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	cfg := iotesting.GetTestDatabaseConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	err := op.Connect(ctx, cfg)
	assert.Error(t, err, "Connect should fail with invalid host")
}

func TestPgxOperator_TableExists(t *testing.T) {
	iotesting.RequireDatabase(t)

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err)
	defer op.Close()

	// Clean up any existing test table
	_, _ = op.Pool().Exec(ctx, "DROP TABLE IF EXISTS test_table_exists CASCADE")

	// Table should not exist initially
	exists, err := op.TableExists(ctx, "test_table_exists")
	require.NoError(t, err)
	assert.False(t, exists, "Table should not exist initially")

	// Create table
	_, err = op.Pool().Exec(ctx, "CREATE TABLE test_table_exists (id SERIAL PRIMARY KEY)")
	require.NoError(t, err)

	// Table should now exist
	exists, err = op.TableExists(ctx, "test_table_exists")
	require.NoError(t, err)
	assert.True(t, exists, "Table should exist after creation")

	// Clean up
	_, _ = op.Pool().Exec(ctx, "DROP TABLE test_table_exists")
}

func TestPgxOperator_DropPipelineTables(t *testing.T) {
	iotesting.RequireDatabase(t)

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err)
	defer op.Close()

	_, err = op.Pool().Exec(ctx, "CREATE TABLE IF NOT EXISTS variants (id SERIAL PRIMARY KEY)")
	require.NoError(t, err)
	_, err = op.Pool().Exec(ctx, "CREATE TABLE IF NOT EXISTS rgd_objects (id SERIAL PRIMARY KEY)")
	require.NoError(t, err)
	defer op.Pool().Exec(ctx, "DROP TABLE IF EXISTS rgd_objects")

	has, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	missing, err := op.MissingTables(ctx)
	require.NoError(t, err)
	assert.NotContains(t, missing, "variants")
	assert.Contains(t, missing, "annotations")

	err = op.DropPipelineTables(ctx)
	require.NoError(t, err)

	exists, _ := op.TableExists(ctx, "variants")
	assert.False(t, exists, "variants should be dropped")
	exists, _ = op.TableExists(ctx, "rgd_objects")
	assert.True(t, exists, "tables of other pipelines should be kept")

	has, err = op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestPgxOperator_NotConnected(t *testing.T) {
	op := iodb.NewPgxOperator()
	ctx := context.Background()

	_, err := op.MissingTables(ctx)
	assert.Error(t, err)
	_, err = op.HasTables(ctx)
	assert.Error(t, err)
	assert.Error(t, op.DropPipelineTables(ctx))
}
