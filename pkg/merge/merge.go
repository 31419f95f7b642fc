// Package merge contains pure functions that combine free-text values of a
// variant coming from several ClinVar submissions with the values already
// stored for the variant.
package merge

import (
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// NotesLimit is the length at which variant notes are cut.
const NotesLimit = 3900

var (
	splitExisting = regexp.MustCompile(`/|\||\s*,\s*`)
	splitIncoming = regexp.MustCompile(`/|\s*,\s*`)
)

// Merge unions '|'-separated tokens of incoming and existing values.
// Tokens are deduplicated case-insensitively, the casing of an incoming
// token wins. The result is sorted. The changed flag is true when the
// result differs from the existing value.
func Merge(incoming, existing string) (string, bool) {
	if incoming == "" {
		return existing, false
	}
	if existing == "" {
		return incoming, true
	}

	set := newTokenSet()
	set.add(strings.Split(existing, "|")...)
	set.add(strings.Split(incoming, "|")...)
	res := strings.Join(set.sorted(strings.Compare), "|")
	return res, res != existing
}

// MergeClinicalSignificance unions clinical significance values and orders
// them by severity rank. Existing values are split on '/', '|' and ',',
// incoming values on '/' and ','. Tokens with unknown rank go after the
// known ones, except "not provided" which is always the last.
func MergeClinicalSignificance(incoming, existing string) (string, bool) {
	if incoming == "" {
		return existing, false
	}
	if existing == "" {
		return incoming, true
	}

	set := newTokenSet()
	set.add(splitExisting.Split(existing, -1)...)
	set.add(splitIncoming.Split(incoming, -1)...)
	res := strings.Join(set.sorted(compareSignificance), "|")
	return res, res != existing
}

// UnknownSignificance returns tokens of a clinical significance value that
// do not have a severity rank.
func UnknownSignificance(s string) []string {
	var res []string
	for _, v := range splitExisting.Split(s, -1) {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := significanceRank[strings.ToLower(v)]; !ok {
			res = append(res, v)
		}
	}
	return res
}

// NewerDate returns the later of two last-evaluated dates. A nil incoming
// date keeps the existing one.
func NewerDate(incoming, existing *time.Time) *time.Time {
	if incoming == nil {
		return existing
	}
	if existing != nil && existing.After(*incoming) {
		return existing
	}
	return incoming
}

// TrimNotes cuts s at limit bytes and appends " ..." to it. Strings that
// fit the limit are returned unchanged.
func TrimNotes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + " ..."
}

// tokenSet keeps tokens unique case-insensitively. Later additions
// replace the casing of earlier ones.
type tokenSet map[string]string

func newTokenSet() tokenSet {
	return make(tokenSet)
}

func (ts tokenSet) add(tokens ...string) {
	for _, v := range tokens {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		ts[strings.ToLower(v)] = v
	}
}

func (ts tokenSet) sorted(cmp func(a, b string) int) []string {
	res := make([]string, 0, len(ts))
	for _, v := range ts {
		res = append(res, v)
	}
	slices.SortFunc(res, cmp)
	return res
}
