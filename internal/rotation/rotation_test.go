package rotation

import (
	"testing"

	"github.com/abhisek/wordiz/internal/sampler"
	"github.com/abhisek/wordiz/internal/vocab"
)

func TestNext_VisitsEveryKindBeforeRepeat(t *testing.T) {
	sets := [][]vocab.Kind{
		vocab.AllKinds(),
		vocab.AllKinds()[:7],
		{vocab.KindHearing},
	}
	for _, kinds := range sets {
		for seed := uint64(1); seed <= 20; seed++ {
			r := New(kinds, sampler.New(seed))
			r.Init()
			seen := map[vocab.Kind]bool{}
			for i := 0; i < len(kinds); i++ {
				k := r.Next()
				if seen[k] {
					t.Fatalf("seed %d: %s repeated before all %d kinds were visited", seed, k, len(kinds))
				}
				seen[k] = true
			}
			if len(seen) != len(kinds) {
				t.Errorf("seed %d: visited %d kinds, want %d", seed, len(seen), len(kinds))
			}
		}
	}
}

func TestInit_KeepsOrderUntilTenPlays(t *testing.T) {
	r := New(vocab.AllKinds(), sampler.New(3))
	r.Init()
	before := r.Order()

	for i := 0; i < ReshuffleAfter-1; i++ {
		r.Next()
		r.Init()
	}
	after := r.Order()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("order changed before %d plays", ReshuffleAfter)
		}
	}
	if r.Plays() != ReshuffleAfter-1 {
		t.Errorf("Plays() = %d, want %d", r.Plays(), ReshuffleAfter-1)
	}

	r.Next()
	r.Init()
	if r.Plays() != 0 {
		t.Errorf("Plays() after reshuffle = %d, want 0", r.Plays())
	}
}

func TestNext_WrapsAround(t *testing.T) {
	kinds := []vocab.Kind{vocab.KindHearing, vocab.KindChooseWord, vocab.KindWriteWord}
	r := New(kinds, sampler.New(1))
	first := []vocab.Kind{r.Next(), r.Next(), r.Next()}
	for i := 0; i < 3; i++ {
		if got := r.Next(); got != first[i] {
			t.Errorf("cycle 2 pos %d = %s, want %s", i, got, first[i])
		}
	}
}

func TestNext_Empty(t *testing.T) {
	if got := New(nil, nil).Next(); got != "" {
		t.Errorf("Next() = %q, want empty", got)
	}
}

func TestRotations_AreIndependent(t *testing.T) {
	a := New(vocab.AllKinds(), sampler.New(1))
	b := New(vocab.AllKinds(), sampler.New(1))
	a.Next()
	a.Next()
	if b.Plays() != 0 {
		t.Errorf("b.Plays() = %d, want 0", b.Plays())
	}
}
