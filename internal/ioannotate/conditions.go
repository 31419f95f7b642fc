package ioannotate

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/merge"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

// match is an ontology term found for a condition.
type match struct {
	acc  string
	term string
	// note tells which name gave the match, e.g. "term: Brugada syndrome"
	// or "term: LQT3" for an alias of the variant.
	note string
}

// matchConditions looks up every condition of the variant's trait name
// in all annotated ontologies. A condition without a hit is retried with
// the aliases of the variant. Notes name the matched text the same way
// for conditions and aliases.
func (p *pass) matchConditions(
	ctx context.Context,
	v variant.Variant,
) (map[string][]match, error) {
	res := make(map[string][]match, len(ontologies))

	var aliases []string
	var aliasesLoaded bool
	for _, cond := range merge.Conditions(v.TraitName) {
		if p.isExcluded(cond) {
			p.rc.Inc("CONDITIONS_EXCLUDED")
			continue
		}
		p.rc.Inc("CONDITIONS_TOTAL")

		for i, ont := range ontologies {
			ms, err := p.lookup(ctx, ont.id, cond, "term")
			if err != nil {
				return nil, err
			}

			if len(ms) == 0 {
				if !aliasesLoaded {
					aliases, err = p.store.AliasValues(ctx, v.ID)
					if err != nil {
						return nil, err
					}
					aliasesLoaded = true
				}
				for _, alias := range aliases {
					am, err := p.lookup(ctx, ont.id, alias, "term")
					if err != nil {
						return nil, err
					}
					ms = append(ms, am...)
				}
			}

			if len(ms) == 0 {
				// only the disease ontology defines unmatchable conditions
				if i == 0 {
					p.unmatchable(cond)
				}
				continue
			}
			p.rc.Add(ont.id+"_CONDITION_MATCHES", len(ms))
			res[ont.id] = append(res[ont.id], ms...)
		}
	}
	return res, nil
}

func (p *pass) lookup(
	ctx context.Context,
	ontologyID, name, by string,
) ([]match, error) {
	accs, err := p.matcher.Lookup(ctx, ontologyID, name)
	if err != nil {
		return nil, TermIndexError(ontologyID, err)
	}

	res := make([]match, 0, len(accs))
	for _, acc := range accs {
		t, ok, err := p.matcher.Term(ctx, ontologyID, acc)
		if err != nil {
			return nil, TermIndexError(ontologyID, err)
		}
		if !ok {
			continue
		}
		res = append(res, match{acc: acc, term: t.Name, note: by + ": " + name})
	}
	return res, nil
}

func (p *pass) isExcluded(cond string) bool {
	_, ok := p.excluded[strings.ToLower(cond)]
	return ok
}

// unmatchable records a condition without terms. Conditions are compared
// case-insensitively, drug responses are tallied apart.
func (p *pass) unmatchable(cond string) {
	cond = strings.ToUpper(cond)

	p.mu.Lock()
	defer p.mu.Unlock()
	if strings.Contains(cond, "RESPONSE") {
		p.drugResponses[cond] = struct{}{}
		return
	}
	p.unmatched[cond]++
}

// unmatchableReport returns lines of the unmatchable conditions report:
// conditions grouped by the number of their occurrences, most frequent
// first.
func (p *pass) unmatchableReport() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	groups := make(map[int][]string)
	for k, v := range p.unmatched {
		groups[v] = append(groups[v], k)
	}
	counts := slices.SortedFunc(maps.Keys(groups), func(a, b int) int {
		return cmp.Compare(b, a)
	})

	res := []string{fmt.Sprintf("Unmatchable conditions: %d", len(p.unmatched))}
	for _, c := range counts {
		res = append(res, fmt.Sprintf("  [%d]", c))
		names := groups[c]
		slices.Sort(names)
		for _, v := range names {
			res = append(res, "    "+v)
		}
	}
	return res
}
