package bayes

import (
	"context"

	"github.com/rfaulkner/databayes/internal/column"
	"github.com/rfaulkner/databayes/internal/filter"
	"github.com/rfaulkner/databayes/internal/model"
)

// roulette walks candidates in enumeration order, accumulating
// instance_count, and returns the first relation whose running sum reaches
// a uniform pivot drawn from [1, weight]. weight is ordinarily the
// candidates' own instance_count sum, but SamplePairwiseCausal draws its
// pivot from a larger population (§4.6 step 1's countEntityInRelations) than
// the candidates it walks, so a pivot that falls outside what the candidates
// themselves cover is a valid "no sample" outcome, not an error — the caller
// gets nil and a debug note (the zero-weight case gets nil and a warning),
// rather than an arbitrary fallback pick.
func (b *Engine) roulette(candidates []*model.Relation, weight int, label string) *model.Relation {
	if weight == 0 {
		b.emitter.Warning(label+": zero total weight, returning no sample", false)
		return nil
	}

	pivot := b.rng.IntN(weight) + 1 // uniform in [1, weight]
	running := 0
	for _, r := range candidates {
		running += r.InstanceCount
		if running >= pivot {
			return r
		}
	}
	b.emitter.Note(label+": pivot fell outside the sampled candidates, returning no sample", true)
	return nil
}

// SampleMarginal draws one relation, weighted by instance_count, from the
// filtered union of relations touching e on either side.
func (b *Engine) SampleMarginal(ctx context.Context, e string, bucket *model.AttributeBucket, cmp column.Comparator) (*model.Relation, error) {
	rels, err := b.fetchAllSides(ctx, e)
	if err != nil {
		return nil, err
	}
	candidates := filter.Apply(rels, bucket, cmp)
	return b.roulette(candidates, sumInstances(candidates), "bayes: sampleMarginal"), nil
}

// SamplePairwise draws one relation, weighted by instance_count, from the
// filtered relations directly between x and y.
func (b *Engine) SamplePairwise(ctx context.Context, x, y string, bucket *model.AttributeBucket, cmp column.Comparator) (*model.Relation, error) {
	rels, err := b.index.FetchRelationPrefix(ctx, x, y)
	if err != nil {
		return nil, err
	}
	candidates := filter.Apply(rels, bucket, cmp)
	return b.roulette(candidates, sumInstances(candidates), "bayes: samplePairwise"), nil
}

// SamplePairwiseCausal draws one relation, weighted by instance_count, from
// the filtered relations between x and y whose cause is x. Its pivot is
// drawn from the weight of every causal relation of x (CountEntityInRelations
// with causal=true), matching the original bayes.h's weight source, not just
// the (x,y) candidates' own sum — so a draw that lands on one of x's other
// causal relations correctly yields no sample here.
func (b *Engine) SamplePairwiseCausal(ctx context.Context, x, y string, bucket *model.AttributeBucket, cmp column.Comparator) (*model.Relation, error) {
	weight, err := b.CountEntityInRelations(ctx, x, bucket, cmp, true)
	if err != nil {
		return nil, err
	}

	rels, err := b.index.FetchRelationPrefix(ctx, x, y)
	if err != nil {
		return nil, err
	}
	candidates := filter.Apply(onlyCausedBy(rels, x), bucket, cmp)
	return b.roulette(candidates, weight, "bayes: samplePairwiseCausal"), nil
}
