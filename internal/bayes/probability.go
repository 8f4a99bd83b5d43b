package bayes

import (
	"context"

	"github.com/rfaulkner/databayes/internal/column"
	"github.com/rfaulkner/databayes/internal/model"
)

// PMarginal returns countEntityInRelations(e, bucket, causal=false) / T.
// It returns 0 and emits a debug note when T is 0, rather than dividing by
// zero.
func (b *Engine) PMarginal(ctx context.Context, e string, bucket *model.AttributeBucket, cmp column.Comparator) (float64, error) {
	total, err := b.index.GetRelationCountTotal(ctx)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		b.emitter.Note("bayes: P_marginal with zero relation total, returning 0", true)
		return 0, nil
	}
	count, err := b.CountEntityInRelations(ctx, e, bucket, cmp, false)
	if err != nil {
		return 0, err
	}
	return float64(count) / float64(total), nil
}

// PPairwise returns countRelations(e1, e2, bucket) / T.
func (b *Engine) PPairwise(ctx context.Context, e1, e2 string, bucket *model.AttributeBucket, cmp column.Comparator) (float64, error) {
	total, err := b.index.GetRelationCountTotal(ctx)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		b.emitter.Note("bayes: P_pairwise with zero relation total, returning 0", true)
		return 0, nil
	}
	count, err := b.CountRelations(ctx, e1, e2, bucket, cmp)
	if err != nil {
		return 0, err
	}
	return float64(count) / float64(total), nil
}

// PConditional returns P_pairwise(e1,e2,bucket) / P_marginal(e2,bucket). It
// returns 0 and emits a debug note when the marginal denominator is 0.
func (b *Engine) PConditional(ctx context.Context, e1, e2 string, bucket *model.AttributeBucket, cmp column.Comparator) (float64, error) {
	pPair, err := b.PPairwise(ctx, e1, e2, bucket, cmp)
	if err != nil {
		return 0, err
	}
	pMarg, err := b.PMarginal(ctx, e2, bucket, cmp)
	if err != nil {
		return 0, err
	}
	if pMarg == 0 {
		b.emitter.Note("bayes: P_conditional with zero marginal denominator, returning 0", true)
		return 0, nil
	}
	return pPair / pMarg, nil
}
