package variant

import (
	"fmt"
	"strings"
)

// Alias is an alternate name of a variant.
type Alias struct {
	ID     int64
	Value  string
	Type   string
	Source string
}

func (a Alias) IdentityKey() string {
	return strings.ToLower(a.Value)
}

func (a Alias) Provenance() string {
	return a.Source
}

// SameContent is always true, an alias has no content beyond its identity.
func (a Alias) SameContent(Alias) bool {
	return true
}

// Xref is a link of a variant to an external database.
type Xref struct {
	ID       int64
	XdbKey   int
	AccID    string
	LinkText string
	Source   string
}

func (x Xref) IdentityKey() string {
	return fmt.Sprintf("%d|%s", x.XdbKey, x.AccID)
}

func (x Xref) Provenance() string {
	return x.Source
}

func (x Xref) SameContent(o Xref) bool {
	return x.LinkText == o.LinkText
}

// ExternalName is an HGVS name of a variant.
type ExternalName struct {
	ID     int64
	Type   string
	Name   string
	Source string
}

func (n ExternalName) IdentityKey() string {
	return n.Type + "|" + n.Name
}

func (n ExternalName) Provenance() string {
	return n.Source
}

func (n ExternalName) SameContent(ExternalName) bool {
	return true
}

// Position is a genomic position of a variant on one assembly. Cytogenetic
// positions carry a FishBand and zero coordinates.
type Position struct {
	ID         int64
	MapKey     int
	Chromosome string
	Start      int64
	Stop       int64
	Strand     string
	FishBand   string
	Notes      string
	Source     string
}

func (p Position) IdentityKey() string {
	return fmt.Sprintf("%d|%s|%d|%d|%s",
		p.MapKey, p.Chromosome, p.Start, p.Stop, p.FishBand)
}

func (p Position) Provenance() string {
	return p.Source
}

func (p Position) SameContent(o Position) bool {
	return p.Strand == o.Strand && p.Notes == o.Notes
}

// GeneLink associates a variant with a resolved gene.
type GeneLink struct {
	ID     int64
	GeneID int64
	Symbol string
	Source string
}

func (g GeneLink) IdentityKey() string {
	return fmt.Sprintf("%d", g.GeneID)
}

func (g GeneLink) Provenance() string {
	return g.Source
}

func (g GeneLink) SameContent(GeneLink) bool {
	return true
}
