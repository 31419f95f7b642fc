package terms

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

type builder struct {
	ctx   context.Context
	store Store
	idx   *index
}

// indexTerms adds primary names. Two terms with the same name are treated
// as an erroneous duplicate, only the higher ranked one stays.
func (b *builder) indexTerms(ontologyID string) error {
	terms, err := b.store.ActiveTerms(b.ctx, ontologyID)
	if err != nil {
		return err
	}

	for _, t := range terms {
		if t.Name == "" {
			slog.Warn("Term without name", "acc", t.Acc)
			continue
		}
		b.idx.terms[t.Acc] = t
		key := Normalize(t.Name)
		accs, ok := b.idx.names[key]
		if !ok {
			b.add(key, t.Acc)
			continue
		}

		for _, acc := range slices.Sorted(maps.Keys(accs)) {
			if acc == t.Acc {
				continue
			}
			winner, err := b.higherRanked(acc, t.Acc)
			if err != nil {
				return err
			}
			if winner == t.Acc {
				delete(accs, acc)
				b.add(key, t.Acc)
			}
			if err = b.duplicate(t.Name, acc, t.Acc, false, ByRank); err != nil {
				return err
			}
		}
	}
	return nil
}

// indexSynonyms adds synonyms. A colliding narrow or broad synonym is
// ignored. Otherwise terms on separate branches of the ontology are both
// kept, and terms on the same branch are resolved by rank.
func (b *builder) indexSynonyms(ontologyID string) error {
	syns, err := b.store.ActiveSynonyms(b.ctx, ontologyID)
	if err != nil {
		return err
	}

	for _, s := range syns {
		if _, ok := b.idx.terms[s.TermAcc]; !ok {
			continue
		}
		key := Normalize(s.Name)
		if key == "" {
			continue
		}
		accs, ok := b.idx.names[key]
		if !ok {
			b.add(key, s.TermAcc)
			continue
		}

		for _, acc := range slices.Sorted(maps.Keys(accs)) {
			if acc == s.TermAcc {
				continue
			}
			if s.Type == NarrowSynonym || s.Type == BroadSynonym {
				continue
			}

			separate, err := b.separateBranches(acc, s.TermAcc)
			if err != nil {
				return err
			}
			res := ByBranches
			if separate {
				b.add(key, s.TermAcc)
			} else {
				res = ByRank
				winner, err := b.higherRanked(acc, s.TermAcc)
				if err != nil {
					return err
				}
				if winner == s.TermAcc {
					delete(accs, acc)
					b.add(key, s.TermAcc)
				}
			}
			if err = b.duplicate(s.Name, acc, s.TermAcc, true, res); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) add(key, acc string) {
	accs, ok := b.idx.names[key]
	if !ok {
		accs = make(map[string]struct{})
		b.idx.names[key] = accs
	}
	accs[acc] = struct{}{}
}

func (b *builder) separateBranches(acc1, acc2 string) (bool, error) {
	desc, err := b.store.IsDescendantOf(b.ctx, acc1, acc2)
	if err != nil || desc {
		return false, err
	}
	desc, err = b.store.IsDescendantOf(b.ctx, acc2, acc1)
	if err != nil {
		return false, err
	}
	return !desc, nil
}

func (b *builder) higherRanked(acc1, acc2 string) (string, error) {
	s1, err := b.termStats(acc1)
	if err != nil {
		return "", err
	}
	s2, err := b.termStats(acc2)
	if err != nil {
		return "", err
	}
	if Rank(s1, s2) > 0 {
		return acc1, nil
	}
	return acc2, nil
}

func (b *builder) termStats(acc string) (Stats, error) {
	if s, ok := b.idx.stats[acc]; ok {
		return s, nil
	}
	s, err := b.store.TermStats(b.ctx, acc)
	if err != nil {
		return s, err
	}
	s.Acc = acc
	b.idx.stats[acc] = s
	return s, nil
}

func (b *builder) duplicate(name, acc1, acc2 string, syn bool, res string) error {
	s1, err := b.termStats(acc1)
	if err != nil {
		return err
	}
	s2, err := b.termStats(acc2)
	if err != nil {
		return err
	}
	b.idx.dups = append(b.idx.dups, Duplicate{
		Name:       name,
		Acc1:       acc1,
		Acc2:       acc2,
		Count1:     s1.AnnotCount,
		Count2:     s2.AnnotCount,
		Synonym:    syn,
		Resolution: res,
	})
	return nil
}
