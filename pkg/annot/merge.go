package annot

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/gnames/gnuuid"
)

var tokenSep = regexp.MustCompile(`[|,;]`)

const notesSep = " | "

// field describes an aggregable annotation field.
type field struct {
	name  string
	limit int
	get   func(*Annotation) string
	set   func(*Annotation, string)
	// key builds the merge key, it excludes the field itself.
	key func(*Annotation) string
}

var xrefSourceField = field{
	name:  "XrefSource",
	limit: XrefSourceLimit,
	get:   func(a *Annotation) string { return a.XrefSource },
	set:   func(a *Annotation, s string) { a.XrefSource = s },
	key: func(a *Annotation) string {
		return mergeKey(a, a.WithInfo)
	},
}

var withInfoField = field{
	name:  "WithInfo",
	limit: WithInfoLimit,
	get:   func(a *Annotation) string { return a.WithInfo },
	set:   func(a *Annotation, s string) { a.WithInfo = s },
	key: func(a *Annotation) string {
		return mergeKey(a, a.XrefSource)
	},
}

// mergeKey returns everything that defines an annotation except the two
// aggregable fields, plus one of them.
func mergeKey(a *Annotation, other string) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s|%d|%d|%s|%s|%s",
		a.SubjectKind, a.SubjectID, a.TermAcc, a.DataSource, a.Evidence,
		a.RefID, a.CreatedBy, a.Qualifier, other, a.Extension)
}

// Dropped is a token that could not fit a field ceiling on its own.
type Dropped struct {
	// Group is a UUID v5 of the merge key of the annotation. It does not
	// change between runs, so dropped tokens of nightly loads can be
	// traced to the same annotation.
	Group string
	Field string
	Token string
}

// GroupID returns the stable id of the merge group of an annotation for
// the given aggregable field ("XrefSource" or "WithInfo").
func GroupID(a *Annotation, fieldName string) string {
	f := xrefSourceField
	if fieldName == withInfoField.name {
		f = withInfoField
	}
	return gnuuid.New(f.key(a)).String()
}

// Merge runs both merge and split passes over candidates. It returns the
// annotations ready for reconciliation and the tokens dropped because they
// could not fit a ceiling on their own.
func Merge(candidates []Annotation) ([]Annotation, []Dropped) {
	res := mergePass(candidates, xrefSourceField)
	res, dropped1 := splitPass(res, xrefSourceField)
	res = mergePass(res, withInfoField)
	res, dropped2 := splitPass(res, withInfoField)
	return res, append(dropped1, dropped2...)
}

// mergePass groups annotations by the merge key of the field. Values of
// the field and notes of a group are united.
func mergePass(annots []Annotation, f field) []Annotation {
	idx := make(map[string]int, len(annots))
	res := make([]Annotation, 0, len(annots))
	for i := range annots {
		a := annots[i]
		k := f.key(&a)
		j, ok := idx[k]
		if !ok {
			idx[k] = len(res)
			res = append(res, a)
			continue
		}

		m := &res[j]
		f.set(m, union(tokenSep, "|", f.get(m), f.get(&a)))
		m.Notes = unionNotes(m.Notes, a.Notes)
	}
	return res
}

// splitPass cuts values of the field longer than its ceiling at the last
// token separator that keeps a part within the ceiling. Every part becomes
// a copy of the annotation. Tokens longer than the ceiling are dropped.
func splitPass(annots []Annotation, f field) ([]Annotation, []Dropped) {
	var dropped []Dropped
	res := make([]Annotation, 0, len(annots))
	for _, a := range annots {
		val := f.get(&a)
		if len(val) <= f.limit {
			res = append(res, a)
			continue
		}

		parts, drop := pack(tokens(val), f.limit)
		if len(drop) > 0 {
			group := gnuuid.New(f.key(&a)).String()
			for _, t := range drop {
				dropped = append(dropped,
					Dropped{Group: group, Field: f.name, Token: t})
			}
		}
		for _, p := range parts {
			sibling := a
			f.set(&sibling, p)
			res = append(res, sibling)
		}
	}
	return res, dropped
}

// tokens splits a value on any token separator, skipping empty tokens.
func tokens(val string) []string {
	var res []string
	for _, t := range tokenSep.Split(val, -1) {
		if t != "" {
			res = append(res, t)
		}
	}
	return res
}

// pack joins tokens with '|' into the smallest number of consecutive
// parts not longer than limit.
func pack(ts []string, limit int) ([]string, []string) {
	var res []string
	var dropped []string
	var sb strings.Builder
	for _, t := range ts {
		if len(t) > limit {
			dropped = append(dropped, t)
			continue
		}
		if sb.Len() > 0 && sb.Len()+1+len(t) > limit {
			res = append(res, sb.String())
			sb.Reset()
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(t)
	}
	if sb.Len() > 0 {
		res = append(res, sb.String())
	}
	return res, dropped
}

func union(sep *regexp.Regexp, join string, values ...string) string {
	set := make(map[string]struct{})
	for _, v := range values {
		if v == "" {
			continue
		}
		for _, t := range sep.Split(v, -1) {
			if t != "" {
				set[t] = struct{}{}
			}
		}
	}
	return joinSorted(set, join)
}

func unionNotes(values ...string) string {
	set := make(map[string]struct{})
	for _, v := range values {
		if v == "" {
			continue
		}
		for _, t := range strings.Split(v, notesSep) {
			if t != "" {
				set[t] = struct{}{}
			}
		}
	}
	return joinSorted(set, notesSep)
}

func joinSorted(set map[string]struct{}, sep string) string {
	res := make([]string, 0, len(set))
	for k := range set {
		res = append(res, k)
	}
	slices.Sort(res)
	return strings.Join(res, sep)
}
