package ioload

import (
	"context"
	"sync"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

// Gene resolution outcomes.
const (
	geneMatched = "GENES_MATCHED"
	geneMultis  = "GENES_MULTIS"
	geneNoMatch = "GENES_NOMATCH"
)

// geneCache memoizes gene lookups for the duration of a run.
type geneCache struct {
	store    GeneStore
	byID     sync.Map
	bySymbol sync.Map
}

func newGeneCache(store GeneStore) *geneCache {
	return &geneCache{store: store}
}

// resolve finds the gene of a reference by its NCBI gene id. When the id
// does not give exactly one gene, the symbol is tried.
func (c *geneCache) resolve(
	ctx context.Context,
	ref variant.GeneRef,
) (variant.Gene, string, error) {
	byID, err := c.lookup(ctx, &c.byID, ref.NCBIGeneID, c.store.GenesByNCBIID)
	if err != nil {
		return variant.Gene{}, "", err
	}
	if len(byID) == 1 {
		return byID[0], geneMatched, nil
	}

	bySymbol, err := c.lookup(ctx, &c.bySymbol, ref.Symbol, c.store.GenesBySymbol)
	if err != nil {
		return variant.Gene{}, "", err
	}
	switch {
	case len(bySymbol) == 1:
		return bySymbol[0], geneMatched, nil
	case len(bySymbol) > 1 || len(byID) > 1:
		return variant.Gene{}, geneMultis, nil
	default:
		return variant.Gene{}, geneNoMatch, nil
	}
}

func (c *geneCache) lookup(
	ctx context.Context,
	cache *sync.Map,
	key string,
	find func(context.Context, string) ([]variant.Gene, error),
) ([]variant.Gene, error) {
	if key == "" {
		return nil, nil
	}
	if v, ok := cache.Load(key); ok {
		return v.([]variant.Gene), nil
	}
	res, err := find(ctx, key)
	if err != nil {
		return nil, err
	}
	cache.Store(key, res)
	return res, nil
}
