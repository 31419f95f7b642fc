package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&Variant{},
		&Alias{},
		&XdbID{},
		&HgvsName{},
		&MapPosition{},
		&Gene{},
		&GeneAssociation{},
		&OntologyTerm{},
		&TermSynonym{},
		&TermDag{},
		&Annotation{},
	}
}

// Tables returns table names of all models in the order of AllModels.
// Tables that reference others come after them.
func Tables() []string {
	models := AllModels()
	res := make([]string, 0, len(models))
	for _, m := range models {
		if t, ok := m.(interface{ TableName() string }); ok {
			res = append(res, t.TableName())
		}
	}
	return res
}

// IndexStatements returns idempotent statements creating indexes
// that GORM tags cannot express, in the order of AllModels.
func IndexStatements() []string {
	var res []string
	for _, m := range AllModels() {
		if g, ok := m.(IndexGenerator); ok {
			res = append(res, g.IndexDDL()...)
		}
	}
	return res
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
