package merge

import (
	"cmp"
	"strings"
)

const unknownRank = 999

var significanceRank = map[string]int{
	"pathogenic":                                   0,
	"likely pathogenic":                            10,
	"risk factor":                                  20,
	"association":                                  30,
	"affects":                                      35,
	"benign":                                       40,
	"likely benign":                                50,
	"conflicting interpretations of pathogenicity": 60,
	"drug response":                                70,
	"protective":                                   80,
	"confers sensitivity":                          85,
	"uncertain significance":                       90,
	"conflicting data from submitters":             100,
	"other":                                        110,
	"not provided":                                 2000,
}

func rank(s string) int {
	if r, ok := significanceRank[strings.ToLower(s)]; ok {
		return r
	}
	return unknownRank
}

// compareSignificance orders by rank, then alphabetically.
func compareSignificance(a, b string) int {
	if c := cmp.Compare(rank(a), rank(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
