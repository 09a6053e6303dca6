package allocation

import "testing"

func roster(n int) []Student {
	out := make([]Student, n)
	for i := range out {
		out[i] = Student{ID: uint64(i + 1)}
	}
	return out
}

func TestNewSeedFormat(t *testing.T) {
	seed, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	if len(seed) != 32 {
		t.Errorf("seed length = %d, want 32 hex chars", len(seed))
	}
	other, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	if seed == other {
		t.Error("two seeds should not collide")
	}
}

func TestShuffleDeterministic(t *testing.T) {
	in := roster(50)
	a := Shuffle(in, "0123456789abcdef0123456789abcdef")
	b := Shuffle(in, "0123456789abcdef0123456789abcdef")
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed diverged at index %d: %d vs %d", i, a[i].ID, b[i].ID)
		}
	}
}

func TestShuffleSeedSensitive(t *testing.T) {
	in := roster(50)
	a := Shuffle(in, "seed-one")
	b := Shuffle(in, "seed-two")
	same := true
	for i := range a {
		if a[i].ID != b[i].ID {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced the identical permutation")
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	in := roster(20)
	out := Shuffle(in, "any-seed")
	if len(out) != len(in) {
		t.Fatalf("length changed: %d -> %d", len(in), len(out))
	}
	seen := make(map[uint64]bool, len(out))
	for _, s := range out {
		if seen[s.ID] {
			t.Fatalf("student %d appears twice", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	in := roster(10)
	_ = Shuffle(in, "whatever")
	for i, s := range in {
		if s.ID != uint64(i+1) {
			t.Fatalf("input mutated at index %d", i)
		}
	}
}
