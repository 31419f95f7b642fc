package merge

import (
	"slices"
	"strings"
)

// QCTraitName removes " (1 family) " and " (1 patient) " from a trait name
// and drops a "not provided [RCV...]" condition when another condition
// carries the same RCV accession.
//
// For example
//
//	Brugada syndrome 3 [RCV1]|not provided [RCV2]|Brugada syndrome [RCV2]
//
// becomes
//
//	Brugada syndrome 3 [RCV1]|Brugada syndrome [RCV2]
func QCTraitName(trait string) (string, bool) {
	var changed bool
	for _, v := range []string{" (1 family) ", " (1 patient) "} {
		if strings.Contains(trait, v) {
			trait = strings.ReplaceAll(trait, v, " ")
			changed = true
		}
	}

	if !strings.Contains(trait, "not provided") {
		return trait, changed
	}
	conds := strings.Split(trait, "|")
	if len(conds) == 1 {
		return trait, changed
	}

	for i, cond := range conds {
		if !strings.HasPrefix(cond, "not provided") {
			continue
		}
		pos := strings.Index(cond, " [RCV")
		if pos < 0 {
			continue
		}
		rcv := cond[pos:]
		for j, other := range conds {
			if i != j && strings.Contains(other, rcv) {
				conds = slices.Delete(conds, i, i+1)
				return strings.Join(conds, "|"), true
			}
		}
	}
	return trait, changed
}

// DedupConditions removes case-insensitive duplicates from a '|'-separated
// list of conditions. The result is sorted.
func DedupConditions(trait string) (string, bool) {
	conds := strings.Split(trait, "|")
	if len(conds) == 1 {
		return trait, false
	}

	seen := make(map[string]struct{}, len(conds))
	res := make([]string, 0, len(conds))
	for _, v := range conds {
		lc := strings.ToLower(v)
		if _, ok := seen[lc]; ok {
			continue
		}
		seen[lc] = struct{}{}
		res = append(res, v)
	}
	if len(res) == len(conds) {
		return trait, false
	}

	slices.Sort(res)
	return strings.Join(res, "|"), true
}

// Conditions splits a trait name into condition names without their
// " [RCV...]" suffixes.
func Conditions(trait string) []string {
	var res []string
	for _, v := range strings.Split(trait, "|") {
		if pos := strings.Index(v, " [RCV"); pos >= 0 {
			v = v[:pos]
		}
		v = strings.TrimSpace(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}
