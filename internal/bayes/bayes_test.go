package bayes

import (
	"context"
	"math"
	"testing"

	"github.com/rfaulkner/databayes/internal/column"
	"github.com/rfaulkner/databayes/internal/emit"
	"github.com/rfaulkner/databayes/internal/index"
	"github.com/rfaulkner/databayes/internal/model"
	"github.com/rfaulkner/databayes/internal/store/memory"
)

func newTestEngine(t *testing.T, seed uint64) (*Engine, *index.Index) {
	t.Helper()
	e := emit.New(nil, false)
	idx := index.New(memory.New(), e)
	return New(idx, NewSeededRNG(seed), e), idx
}

func writeRel(t *testing.T, idx *index.Index, left, right, cause string) {
	t.Helper()
	r := &model.Relation{Left: left, Right: right, Cause: cause, InstanceCount: 1}
	if err := idx.WriteRelation(context.Background(), r); err != nil {
		t.Fatalf("WriteRelation(%s,%s): %v", left, right, err)
	}
}

// seedScenario reproduces the spec's fixture: entities _w,_x,_y,_z, two
// (_x,_y), two (_x,_z), one (_w,_y).
func seedScenario(t *testing.T, idx *index.Index) {
	t.Helper()
	writeRel(t, idx, "_x", "_y", "_x")
	writeRel(t, idx, "_x", "_y", "_x")
	writeRel(t, idx, "_x", "_z", "_x")
	writeRel(t, idx, "_x", "_z", "_x")
	writeRel(t, idx, "_w", "_y", "_w")
}

func TestCountEntityInRelationsMatchesScenario(t *testing.T) {
	ctx := context.Background()
	b, idx := newTestEngine(t, 1)
	seedScenario(t, idx)

	cases := map[string]int{"_w": 1, "_x": 4, "_y": 3, "_z": 2}
	for e, want := range cases {
		got, err := b.CountEntityInRelations(ctx, e, nil, column.Eq, false)
		if err != nil {
			t.Fatalf("CountEntityInRelations(%s): %v", e, err)
		}
		if got != want {
			t.Errorf("countEntityInRelations(%s) = %d, want %d", e, got, want)
		}
	}
}

func TestPMarginalMatchesScenario(t *testing.T) {
	ctx := context.Background()
	b, idx := newTestEngine(t, 1)
	seedScenario(t, idx)

	cases := map[string]float64{"_w": 0.2, "_x": 0.8, "_y": 0.6, "_z": 0.4}
	for e, want := range cases {
		got, err := b.PMarginal(ctx, e, nil, column.Eq)
		if err != nil {
			t.Fatalf("PMarginal(%s): %v", e, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("P_marginal(%s) = %v, want %v", e, got, want)
		}
	}
}

func TestPMarginalZeroTotalIsZeroNotError(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestEngine(t, 1)
	got, err := b.PMarginal(ctx, "_ghost", nil, column.Eq)
	if err != nil || got != 0 {
		t.Fatalf("PMarginal with empty store = (%v,%v), want (0,nil)", got, err)
	}
}

func TestPConditionalZeroMarginalIsZeroNotError(t *testing.T) {
	ctx := context.Background()
	b, idx := newTestEngine(t, 1)
	seedScenario(t, idx)
	got, err := b.PConditional(ctx, "_w", "_ghost", nil, column.Eq)
	if err != nil || got != 0 {
		t.Fatalf("PConditional against an untouched entity = (%v,%v), want (0,nil)", got, err)
	}
}

// TestSamplePairwiseConvergesToUniform reproduces scenario 5: three
// (_x,_y) relations at instance_count=1 each should draw with roughly equal
// empirical frequency over many trials.
func TestSamplePairwiseConvergesToUniform(t *testing.T) {
	ctx := context.Background()
	b, idx := newTestEngine(t, 42)

	var ids []string
	for i := 0; i < 3; i++ {
		r := &model.Relation{
			Left: "_x", Right: "_y", Cause: "_x",
			AttrsLeft:     []model.AttrValue{{Name: "i", Value: string(rune('0' + i))}},
			TypesLeft:     map[string]column.Type{"i": column.Integer},
			InstanceCount: 1,
		}
		if err := idx.WriteRelation(ctx, r); err != nil {
			t.Fatalf("WriteRelation: %v", err)
		}
		ids = append(ids, r.Key())
	}

	const trials = 10000
	counts := make(map[string]int, 3)
	for i := 0; i < trials; i++ {
		r, err := b.SamplePairwise(ctx, "_x", "_y", nil, column.Eq)
		if err != nil {
			t.Fatalf("SamplePairwise: %v", err)
		}
		if r == nil {
			t.Fatal("SamplePairwise returned nil with nonzero weight")
		}
		counts[r.Key()]++
	}

	for _, id := range ids {
		freq := float64(counts[id]) / trials
		if math.Abs(freq-1.0/3.0) > 0.05 {
			t.Errorf("empirical frequency for %s = %v, want ~0.333", id, freq)
		}
	}
}

func TestSampleZeroWeightReturnsNilWithWarning(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestEngine(t, 1)
	r, err := b.SamplePairwise(ctx, "_x", "_y", nil, column.Eq)
	if err != nil || r != nil {
		t.Fatalf("SamplePairwise with no candidates = (%v,%v), want (nil,nil)", r, err)
	}
}

// TestSamplePairwiseCausalWeightSpansOtherRelations verifies that the
// sampler's pivot is drawn from x's full causal weight, not just the (x,y)
// candidates' own sum: when x causes far more relations elsewhere than with
// y, a healthy share of draws correctly come back nil rather than always
// returning the lone (x,y) relation.
func TestSamplePairwiseCausalWeightSpansOtherRelations(t *testing.T) {
	ctx := context.Background()
	b, idx := newTestEngine(t, 99)
	writeRel(t, idx, "_x", "_y", "_x")
	for i := 0; i < 9; i++ {
		r := &model.Relation{
			Left: "_x", Right: "_z", Cause: "_x",
			AttrsLeft:     []model.AttrValue{{Name: "i", Value: string(rune('0' + i))}},
			TypesLeft:     map[string]column.Type{"i": column.Integer},
			InstanceCount: 1,
		}
		if err := idx.WriteRelation(ctx, r); err != nil {
			t.Fatalf("WriteRelation: %v", err)
		}
	}

	const trials = 2000
	nils, hits := 0, 0
	for i := 0; i < trials; i++ {
		r, err := b.SamplePairwiseCausal(ctx, "_x", "_y", nil, column.Eq)
		if err != nil {
			t.Fatalf("SamplePairwiseCausal: %v", err)
		}
		if r == nil {
			nils++
			continue
		}
		hits++
		if r.Right != "_y" {
			t.Fatalf("SamplePairwiseCausal returned a relation to %s, want _y", r.Right)
		}
	}
	if hits == 0 || nils == 0 {
		t.Fatalf("expected a mix of hits and nils, got hits=%d nils=%d", hits, nils)
	}
	freq := float64(hits) / trials
	if math.Abs(freq-0.1) > 0.04 {
		t.Errorf("hit frequency = %v, want ~0.1 (1 of 10 total causal weight)", freq)
	}
}

func TestSamplePairwiseCausalRestrictsToCause(t *testing.T) {
	ctx := context.Background()
	b, idx := newTestEngine(t, 7)
	writeRel(t, idx, "_x", "_y", "_x")
	writeRel(t, idx, "_x", "_y", "_y")

	for i := 0; i < 50; i++ {
		r, err := b.SamplePairwiseCausal(ctx, "_x", "_y", nil, column.Eq)
		if err != nil {
			t.Fatalf("SamplePairwiseCausal: %v", err)
		}
		if r == nil || r.Cause != "_x" {
			t.Fatalf("SamplePairwiseCausal returned a relation caused by %v, want _x", r)
		}
	}
}
