package quiz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"testing/fstest"
)

func makePool(cat string, d Difficulty, n int) []Question {
	pool := make([]Question, n)
	for i := range pool {
		pool[i] = Question{
			ID:           fmt.Sprintf("%s-%s-%02d", cat, d.Key(), i),
			CategoryID:   cat,
			Difficulty:   d,
			Prompt:       fmt.Sprintf("q%d", i),
			Choices:      []string{fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i), fmt.Sprintf("c%d", i), fmt.Sprintf("d%d", i)},
			CorrectIndex: i % 4,
		}
	}
	return pool
}

func TestCreateSessionSize(t *testing.T) {
	pool := append(makePool("angles", Easy, 12), makePool("angles", Hard, 3)...)

	tests := []struct {
		name string
		d    Difficulty
		size int
		want int
	}{
		{"smaller than pool", Easy, 10, 10},
		{"equal to pool", Easy, 12, 12},
		{"larger than pool", Hard, 10, 3},
		{"empty pool", Medium, 10, 0},
		{"zero size", Easy, 0, 0},
		{"negative size", Easy, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateSession(pool, tt.d, tt.size, NewRand(1))
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			for _, q := range got {
				if q.Difficulty != tt.d {
					t.Errorf("question %s has difficulty %s, want %s", q.ID, q.Difficulty, tt.d)
				}
			}
		})
	}
}

func TestCreateSessionPreservesCorrectText(t *testing.T) {
	pool := makePool("angles", Easy, 12)
	byID := make(map[string]Question, len(pool))
	for _, q := range pool {
		byID[q.ID] = q
	}

	for seed := range uint64(50) {
		for _, sq := range CreateSession(pool, Easy, 10, NewRand(seed)) {
			orig := byID[sq.ID]
			if sq.CorrectChoice() != orig.CorrectChoice() {
				t.Fatalf("seed %d, %s: correct text %q, want %q", seed, sq.ID, sq.CorrectChoice(), orig.CorrectChoice())
			}
			if !sq.IsCorrect(sq.CorrectIndex) {
				t.Fatalf("IsCorrect(CorrectIndex) false for %s", sq.ID)
			}
			got := slices.Clone(sq.Choices)
			want := slices.Clone(orig.Choices)
			slices.Sort(got)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Fatalf("choices of %s are not a permutation: %v vs %v", sq.ID, sq.Choices, orig.Choices)
			}
		}
	}
}

func TestCreateSessionNoDuplicates(t *testing.T) {
	pool := makePool("angles", Easy, 12)
	got := CreateSession(pool, Easy, 12, NewRand(7))

	seen := make(map[string]bool)
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("duplicate question %s", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestCreateSessionDeterministic(t *testing.T) {
	pool := makePool("angles", Easy, 12)

	a := CreateSession(pool, Easy, 10, NewRand(42))
	b := CreateSession(pool, Easy, 10, NewRand(42))
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || !slices.Equal(a[i].Choices, b[i].Choices) || a[i].CorrectIndex != b[i].CorrectIndex {
			t.Fatalf("same seed produced different sessions at %d", i)
		}
	}
}

func TestCreateSessionDoesNotMutatePool(t *testing.T) {
	pool := makePool("angles", Easy, 5)
	before := make([][]string, len(pool))
	for i, q := range pool {
		before[i] = slices.Clone(q.Choices)
	}

	CreateSession(pool, Easy, 5, NewRand(3))

	for i, q := range pool {
		if !slices.Equal(q.Choices, before[i]) {
			t.Fatalf("pool question %d choices changed: %v", i, q.Choices)
		}
	}
}

func TestCreateSessionNilRand(t *testing.T) {
	got := CreateSession(makePool("angles", Easy, 4), Easy, 3, nil)
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestGeneratorPropagatesNotFound(t *testing.T) {
	b, err := NewFileBank(fstest.MapFS{"manifest.json": {Data: []byte(testManifest)}})
	if err != nil {
		t.Fatalf("NewFileBank: %v", err)
	}
	g := NewGenerator(b)

	qs, err := g.CreateSession(context.Background(), "nope", Easy, 10, NewRand(1))
	var nf *ErrCategoryNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want ErrCategoryNotFound", err)
	}
	if qs != nil {
		t.Errorf("got %d questions alongside error", len(qs))
	}
}

func TestGeneratorEmptyPool(t *testing.T) {
	b := newTestBank(t, map[string]string{
		"angles.json": categoryJSON(questionJSON("a1", "angles", "EASY", 2, 0)),
	})
	g := NewGenerator(b)

	qs, err := g.CreateSession(context.Background(), "angles", Hard, 10, NewRand(1))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if len(qs) != 0 {
		t.Errorf("len = %d, want 0", len(qs))
	}
}
