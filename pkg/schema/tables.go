package schema

func (Variant) TableName() string { return "variants" }

func (Variant) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_variants_symbol_lower ON variants (lower(symbol))",
	}
}

func (Alias) TableName() string { return "aliases" }

// IndexDDL of aliases keeps one alias per variant regardless of case.
func (Alias) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_aliases_variant_value ON aliases (variant_id, lower(value))",
	}
}

func (XdbID) TableName() string { return "xdb_ids" }

func (XdbID) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_xdb_ids_variant_acc ON xdb_ids (variant_id, xdb_key, acc_id)",
		"CREATE INDEX IF NOT EXISTS idx_xdb_ids_pipeline_modified ON xdb_ids (src_pipeline, last_modified)",
	}
}

func (HgvsName) TableName() string { return "hgvs_names" }

func (HgvsName) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_hgvs_names_variant_name ON hgvs_names (variant_id, type, name)",
	}
}

func (MapPosition) TableName() string { return "map_positions" }

func (MapPosition) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_map_positions_locus ON map_positions (map_key, chromosome, start_pos, stop_pos)",
	}
}

func (Gene) TableName() string { return "genes" }

func (GeneAssociation) TableName() string { return "gene_associations" }

func (GeneAssociation) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_gene_associations_pair ON gene_associations (variant_id, gene_id)",
	}
}

func (OntologyTerm) TableName() string { return "ontology_terms" }

func (TermSynonym) TableName() string { return "term_synonyms" }

func (TermDag) TableName() string { return "term_dag" }

func (Annotation) TableName() string { return "annotations" }

// IndexDDL of annotations covers the natural key used to find an
// annotation before insert.
func (Annotation) IndexDDL() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_annotations_natural_key ON annotations
  (term_acc, object_id, object_kind, data_source, evidence, ref_id)`,
		"CREATE INDEX IF NOT EXISTS idx_annotations_stale ON annotations (created_by, last_modified)",
	}
}
