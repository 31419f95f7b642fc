// Package schema provides database schema models of the ClinVar pipeline.
// Models are created and migrated by GORM AutoMigrate. Indexes GORM tags
// cannot express are provided by IndexDDL.
package schema

import (
	"time"
)

// IndexGenerator defines models that need indexes beyond GORM tags.
type IndexGenerator interface {
	// IndexDDL returns CREATE INDEX statements for this model.
	// Statements must be idempotent.
	IndexDDL() []string

	// TableName returns the PostgreSQL table name for this model.
	TableName() string
}

// Variant is a ClinVar variant. Symbol is its natural key, usually the
// ClinVar variation id prefixed with "CV".
type Variant struct {
	ID int64 `gorm:"primaryKey"`

	Symbol string `gorm:"type:varchar(100);not null;index"`

	// Name is the full variant name, e.g. NM_000335.5(SCN5A):c.5350G>A.
	Name string `gorm:"type:varchar(4000)"`

	ObjectType string `gorm:"type:varchar(100)"`

	// SOAccID is the Sequence Ontology accession of the variant type.
	SOAccID string `gorm:"column:so_acc_id;type:varchar(20)"`

	// TraitName is a '|' separated list of conditions, each suffixed with
	// the RCV accession that contributed it.
	TraitName string `gorm:"type:text"`

	ClinicalSignificance string `gorm:"type:varchar(1000)"`
	ReviewStatus         string `gorm:"type:varchar(1000)"`
	Submitter            string `gorm:"type:text"`

	// Notes are trimmed to 3900 characters.
	Notes                string `gorm:"type:varchar(4000)"`
	MethodType           string `gorm:"type:varchar(1000)"`
	Prevalence           string `gorm:"type:varchar(1000)"`
	AgeOfOnset           string `gorm:"type:varchar(1000)"`
	MolecularConsequence string `gorm:"type:varchar(4000)"`
	NucleotideChange     string `gorm:"type:varchar(4000)"`
	LastEvaluated        *time.Time

	CreatedAt time.Time
	// LastModified is refreshed every time a load run sees the variant.
	LastModified time.Time `gorm:"not null;default:now();index"`
}

// Alias is an alternative name of a variant.
type Alias struct {
	ID        int64  `gorm:"primaryKey"`
	VariantID int64  `gorm:"not null;index"`
	Type      string `gorm:"type:varchar(50);not null"`
	Value     string `gorm:"type:varchar(4000);not null"`

	// RCV is the source record that contributed the alias.
	RCV string `gorm:"column:rcv;type:varchar(20)"`

	CreatedAt    time.Time
	LastModified time.Time `gorm:"not null;default:now()"`
}

// XdbID is a cross-reference of a variant into an external database.
type XdbID struct {
	ID        int64  `gorm:"primaryKey"`
	VariantID int64  `gorm:"not null;index"`
	XdbKey    int    `gorm:"not null"`
	AccID     string `gorm:"type:varchar(255);not null"`
	LinkText  string `gorm:"type:varchar(255)"`
	RCV       string `gorm:"column:rcv;type:varchar(20)"`

	// SrcPipeline distinguishes cross-references owned by this pipeline.
	SrcPipeline string `gorm:"type:varchar(50);not null;default:'CLINVAR'"`

	CreatedAt time.Time
	// LastModified is touched by every load run that confirms the
	// cross-reference. Stale cross-references are deleted.
	LastModified time.Time `gorm:"not null;default:now();index"`
}

// HgvsName is an HGVS nucleotide change name of a variant.
type HgvsName struct {
	ID        int64  `gorm:"primaryKey"`
	VariantID int64  `gorm:"not null;index"`
	Type      string `gorm:"type:varchar(50);not null"`
	Name      string `gorm:"type:varchar(4000);not null"`
	RCV       string `gorm:"column:rcv;type:varchar(20)"`

	CreatedAt    time.Time
	LastModified time.Time `gorm:"not null;default:now()"`
}

// MapPosition is a genomic position of a variant on one assembly.
type MapPosition struct {
	ID        int64 `gorm:"primaryKey"`
	VariantID int64 `gorm:"not null;index"`

	// MapKey identifies the assembly: 13 NCBI36, 17 GRCh37, 38 GRCh38,
	// 11 cytogenetic.
	MapKey     int    `gorm:"not null"`
	Chromosome string `gorm:"type:varchar(10);not null"`
	StartPos   int64
	StopPos    int64
	Strand     string `gorm:"type:varchar(1)"`
	FishBand   string `gorm:"type:varchar(50)"`

	// Notes keep the sequence accession of the position.
	Notes string `gorm:"type:varchar(255)"`
	RCV   string `gorm:"column:rcv;type:varchar(20)"`

	CreatedAt    time.Time
	LastModified time.Time `gorm:"not null;default:now()"`
}

// Gene is a reference gene. Genes are maintained by another pipeline and
// are only read here.
type Gene struct {
	ID         int64  `gorm:"primaryKey"`
	Symbol     string `gorm:"type:varchar(100);not null;index"`
	Name       string `gorm:"type:varchar(1000)"`
	NCBIGeneID string `gorm:"column:ncbi_gene_id;type:varchar(20);index"`
}

// GeneAssociation links a variant to an affected gene.
type GeneAssociation struct {
	ID        int64  `gorm:"primaryKey"`
	VariantID int64  `gorm:"not null;index"`
	GeneID    int64  `gorm:"not null;index"`
	RCV       string `gorm:"column:rcv;type:varchar(20)"`

	CreatedAt time.Time
}

// OntologyTerm is a term of an ontology (RDO, HP).
type OntologyTerm struct {
	Acc        string `gorm:"primaryKey;type:varchar(20)"`
	OntologyID string `gorm:"type:varchar(10);not null;index"`
	Name       string `gorm:"type:varchar(1000);not null"`
	IsObsolete bool   `gorm:"not null;default:false"`

	// AnnotCount is the number of annotated objects of the term and all
	// its descendants. It is computed by the ontology statistics job.
	AnnotCount int `gorm:"not null;default:0"`
}

// TermSynonym is a synonym of an ontology term.
type TermSynonym struct {
	ID      int64  `gorm:"primaryKey"`
	TermAcc string `gorm:"type:varchar(20);not null;index"`
	Name    string `gorm:"type:varchar(1000);not null"`

	// Type is the synonym scope, e.g. exact_synonym, narrow_synonym.
	Type string `gorm:"type:varchar(50);not null"`
}

// TermDag is an edge of an ontology graph.
type TermDag struct {
	ParentAcc string `gorm:"primaryKey;type:varchar(20)"`
	ChildAcc  string `gorm:"primaryKey;type:varchar(20);index"`
}

// Annotation is a disease or phenotype annotation of a variant or a gene.
type Annotation struct {
	Key int64 `gorm:"column:annot_key;primaryKey"`

	// ObjectKind is "variant" or "gene".
	ObjectKind      string `gorm:"type:varchar(20);not null"`
	ObjectID        int64  `gorm:"not null;index"`
	ObjectSymbol    string `gorm:"type:varchar(100)"`
	TermAcc         string `gorm:"type:varchar(20);not null;index"`
	Term            string `gorm:"type:varchar(1000)"`
	Aspect          string `gorm:"type:varchar(1);not null"`
	Evidence        string `gorm:"type:varchar(10);not null"`
	DataSource      string `gorm:"type:varchar(50);not null"`
	RefID           int    `gorm:"not null"`
	CreatedBy       int    `gorm:"not null;index"`
	Qualifier       string `gorm:"type:varchar(50);not null;default:''"`
	WithInfo        string `gorm:"type:varchar(1700);not null;default:''"`
	XrefSource      string `gorm:"type:varchar(4000);not null;default:''"`
	Notes           string `gorm:"type:varchar(4000)"`
	Extension       string `gorm:"type:varchar(4000)"`
	GeneProductForm string `gorm:"type:varchar(255)"`

	CreatedAt    time.Time
	LastModified time.Time `gorm:"not null;default:now();index"`
}
