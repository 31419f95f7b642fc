package variant

import (
	"strings"
	"unicode"
)

// AddAlias adds an incoming alias to the record. Empty, "not provided" and
// "not specified" values are skipped, as well as aliases already present
// in the trait name as "<alias> [<RCV>]" and case-insensitive duplicates.
// It returns true if the alias was added.
func (r *Record) AddAlias(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if strings.EqualFold(value, "not provided") ||
		strings.EqualFold(value, "not specified") {
		return false
	}

	inTrait := strings.ToLower(value + " [" + r.RCV + "]")
	if strings.Contains(strings.ToLower(r.Variant.TraitName), inTrait) {
		return false
	}

	for _, v := range r.Aliases {
		if strings.EqualFold(v.Value, value) {
			return false
		}
	}

	r.Aliases = append(r.Aliases, Alias{
		Value:  value,
		Type:   AliasType,
		Source: r.RCV,
	})
	return true
}

// AddXref adds an incoming cross-reference. PubMed accessions are reduced
// to digits, dbSNP ids get "rs" link text, OMIM allele accessions replace
// '.' with '#' keeping the original accession as the link text.
// It returns true if the cross-reference was added.
func (r *Record) AddXref(xdbKey int, accID string) bool {
	accID = strings.TrimSpace(accID)
	if xdbKey == XdbPubMed {
		accID = digitsOnly(accID)
	}
	if accID == "" {
		return false
	}

	x := Xref{XdbKey: xdbKey, AccID: accID, Source: r.RCV}
	switch xdbKey {
	case XdbDbSNP:
		x.LinkText = "rs" + accID
	case XdbOMIM:
		x.AccID = strings.ReplaceAll(accID, ".", "#")
		x.LinkText = accID
	}

	for _, v := range r.Xrefs {
		if v.XdbKey == x.XdbKey && v.AccID == x.AccID {
			return false
		}
	}
	r.Xrefs = append(r.Xrefs, x)
	return true
}

// ClinVarIDs returns accessions of ClinVar cross-references of the record.
func (r *Record) ClinVarIDs() []string {
	var res []string
	for _, v := range r.Xrefs {
		if v.XdbKey == XdbClinVar {
			res = append(res, v.AccID)
		}
	}
	return res
}

// PubMedIDs returns accessions of PubMed cross-references of the record.
func (r *Record) PubMedIDs() []string {
	var res []string
	for _, v := range r.Xrefs {
		if v.XdbKey == XdbPubMed {
			res = append(res, v.AccID)
		}
	}
	return res
}

// AddName adds an HGVS name. It returns true if the name was added.
func (r *Record) AddName(typ, name string) bool {
	typ = strings.TrimSpace(typ)
	name = strings.TrimSpace(name)
	if typ == "" || name == "" {
		return false
	}
	for _, v := range r.Names {
		if v.Type == typ && v.Name == name {
			return false
		}
	}
	r.Names = append(r.Names, ExternalName{Type: typ, Name: name, Source: r.RCV})
	return true
}

// AddPosition adds a genomic position on a named assembly. Start and stop
// are swapped if start is greater than stop. Unknown assemblies and empty
// chromosomes return a data quality error.
func (r *Record) AddPosition(
	assembly, chr, accession string,
	start, stop int64,
	strand string,
) error {
	chr = strings.TrimSpace(chr)
	if chr == "" {
		return emptyChromosomeError(r.RCV)
	}
	mapKey, ok := MapKey(assembly)
	if !ok {
		return unknownAssemblyError(r.RCV, assembly)
	}
	if start > stop {
		start, stop = stop, start
	}

	p := Position{
		MapKey:     mapKey,
		Chromosome: chr,
		Start:      start,
		Stop:       stop,
		Strand:     strings.TrimSpace(strand),
		Notes:      strings.TrimSpace(accession),
		Source:     r.RCV,
	}
	r.addPosition(p)
	return nil
}

// AddCytoPosition adds a cytogenetic position. The chromosome is
// extracted from the band, when possible.
func (r *Record) AddCytoPosition(band string) {
	band = strings.TrimSpace(band)
	if band == "" {
		return
	}

	p := Position{MapKey: MapCytogenetic, Source: r.RCV}
	idx := strings.IndexByte(band, 'p')
	if idx < 0 {
		idx = strings.IndexByte(band, 'q')
	}
	if idx > 0 {
		p.Chromosome = band[:idx]
		p.FishBand = band
	} else {
		p.Chromosome = band
	}
	r.addPosition(p)
}

func (r *Record) addPosition(p Position) {
	key := p.IdentityKey()
	for _, v := range r.Positions {
		if v.IdentityKey() == key {
			return
		}
	}
	r.Positions = append(r.Positions, p)
}

// AddGene adds an unresolved gene reference. Both the NCBI gene id and the
// symbol are required.
func (r *Record) AddGene(ncbiGeneID, symbol string) bool {
	ncbiGeneID = strings.TrimSpace(ncbiGeneID)
	symbol = strings.TrimSpace(symbol)
	if ncbiGeneID == "" || symbol == "" {
		return false
	}
	for _, v := range r.Genes {
		if v.NCBIGeneID == ncbiGeneID {
			return false
		}
	}
	r.Genes = append(r.Genes, GeneRef{NCBIGeneID: ncbiGeneID, Symbol: symbol})
	return true
}

// MapKey converts an assembly name to its map key.
func MapKey(assembly string) (int, bool) {
	assembly = strings.TrimSpace(assembly)
	switch {
	case assembly == "NCBI36":
		return MapNCBI36, true
	case assembly == "GRCh37" || strings.HasPrefix(assembly, "GRCh37."):
		return MapGRCh37, true
	case assembly == "GRCh38" || strings.HasPrefix(assembly, "GRCh38."):
		return MapGRCh38, true
	case strings.EqualFold(assembly, "cytogenetic"):
		return MapCytogenetic, true
	}
	return 0, false
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, v := range s {
		if unicode.IsDigit(v) {
			sb.WriteRune(v)
		}
	}
	return sb.String()
}
