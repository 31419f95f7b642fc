package ioschema

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
)

// duplicateHints describe rows that break unique indexes of a table.
var duplicateHints = map[string]string{
	"aliases":           "variant aliases that differ only in letter case",
	"xdb_ids":           "cross references repeated for one variant",
	"hgvs_names":        "HGVS names repeated for one variant",
	"gene_associations": "variant to gene links repeated for one variant",
}

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Cannot change ClinVar tables without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  errors.New("not connected to database"),
	}
}

// GORMConnectionError creates an error for GORM
// connection failures.
func GORMConnectionError(err error) error {
	msg := `Cannot open ClinVar schema models with GORM

<em>Possible causes:</em>
  - Connection pool not initialized
  - Database configuration issue

<em>How to fix:</em>
  1. Check the database section of
     <em>~/.config/clinvar-pipeline/config.yaml</em>
  2. Run the command again`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create variant, ontology and annotation tables

<em>Possible causes:</em>
  - Database user cannot create tables
  - A table of another pipeline uses the same name

<em>How to fix:</em>
  1. Grant CREATE on the public schema to the pipeline user
  2. Check that <em>variants</em>, <em>annotations</em> and
     <em>ontology_terms</em> are not owned by other software
  3. Check database logs for details`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to create ClinVar tables: %w", err),
	}
}

// MigrateSchemaError creates an error for schema
// migration failures.
func MigrateSchemaError(err error) error {
	msg := `Cannot migrate ClinVar tables

<em>Possible causes:</em>
  - A column type changed in a way GORM cannot alter
  - Database user cannot alter tables

<em>How to fix:</em>
  1. Check database logs for the failing ALTER statement
  2. Back up <em>variants</em> and <em>annotations</em>
  3. As a last resort recreate the schema:
     <em>clinvar create --force</em>
     and load ClinVar again`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to migrate ClinVar tables: %w", err),
	}
}

// IndexError creates an error for index creation failures. Unique
// indexes of the variant tables fail when old rows repeat their key.
func IndexError(index, table string, err error) error {
	hint, ok := duplicateHints[table]
	if !ok {
		hint = "rows of the table repeat the index key"
	}

	msg := `Cannot create index <em>%s</em> on <em>%s</em>

<em>Possible causes:</em>
  - Existing rows have %s
  - Insufficient database permissions

<em>How to fix:</em>
  1. Remove the duplicates reported in the database log
  2. Check database user has CREATE permissions
  3. Run <em>clinvar migrate</em> again`

	return &gn.Error{
		Code: errcode.SchemaIndexError,
		Msg:  msg,
		Vars: []any{index, table, hint},
		Err: fmt.Errorf(
			"failed to create index %s on %s: %w", index, table, err,
		),
	}
}
