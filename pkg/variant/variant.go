// Package variant contains the domain types of the ClinVar reconciliation
// pipeline: the variant scalar record, the five kinds of sub-entities
// attached to a variant and the staged record that carries them from the
// input port to the loader.
package variant

import "time"

// Cross-reference database keys.
const (
	XdbPubMed   = 2
	XdbNCBIGene = 3
	XdbDbSNP    = 48
	XdbClinVar  = 52
	XdbOMIM     = 53
	XdbMedGen   = 54
)

// Map keys of assemblies that carry variant positions.
const (
	MapCytogenetic = 11
	MapNCBI36      = 13
	MapGRCh37      = 17
	MapGRCh38      = 38
)

// AliasType is the type name given to every alias created by the pipeline.
const AliasType = "alternate_id"

// Variant is the scalar part of a variant. Symbol is its natural key, ID
// is the surrogate key assigned by the store (0 for a new variant).
type Variant struct {
	ID                   int64
	Symbol               string
	Name                 string
	ObjectType           string
	SOAccID              string
	TraitName            string
	ClinicalSignificance string
	ReviewStatus         string
	Submitter            string
	Notes                string
	MethodType           string
	Prevalence           string
	AgeOfOnset           string
	MolecularConsequence string
	NucleotideChange     string
	LastEvaluated        *time.Time
}

// Gene is a reference gene a variant can be associated with.
type Gene struct {
	ID         int64
	Symbol     string
	Name       string
	NCBIGeneID string
}

// GeneRef is an unresolved gene reference coming with a staged record.
type GeneRef struct {
	NCBIGeneID string
	Symbol     string
}

// Record is one staged ClinVar record (an RCV submission) with the
// normalized incoming sub-entities of its variant.
type Record struct {
	// RecNo is the position of the record in the staged file.
	RecNo int
	// RCV is the ClinVar accession of the record. It is the provenance of
	// every sub-entity the record contributes.
	RCV     string
	Variant Variant

	Aliases   []Alias
	Xrefs     []Xref
	Names     []ExternalName
	Positions []Position
	Genes     []GeneRef

	// Issues are data quality problems found while staging the record.
	// The offending entities are not part of the record.
	Issues []error
}

// New creates a Record for the given RCV accession.
func New(recNo int, rcv string, v Variant) *Record {
	return &Record{RecNo: recNo, RCV: rcv, Variant: v}
}
