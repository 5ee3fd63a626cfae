package domain

import "testing"

func TestNormalizeNarrative(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"AI Agents", "ai_agents"},
		{"memes", "memes"},
		{"Celebrity Coins Two", "celebrity_coins_two"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeNarrative(tc.in); got != tc.want {
			t.Errorf("NormalizeNarrative(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeywordIndexPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	a := &Trend{ID: 1, Keyword: "alpha"}
	b := &Trend{ID: 2, Keyword: "beta"}

	idx := NewKeywordIndex()
	idx.Add("Alpha", a)
	idx.Add("beta", b)
	idx.Add("ALPHA", b) // collision keeps position, takes the new trend

	keys := idx.Keywords()
	if len(keys) != 2 || keys[0] != "alpha" || keys[1] != "beta" {
		t.Fatalf("unexpected key order %v", keys)
	}

	trend, ok := idx.Trend("alpha")
	if !ok || trend.ID != 2 {
		t.Fatalf("collision should resolve to the latest trend, got %+v", trend)
	}
	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}
}

func TestKeywordIndexLookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	idx := NewKeywordIndex()
	idx.Add("Vibe Coding", &Trend{ID: 1, Keyword: "Vibe Coding"})

	if _, ok := idx.Trend("VIBE CODING"); !ok {
		t.Fatal("lookup should be case-insensitive")
	}
	if _, ok := idx.Trend("unknown"); ok {
		t.Fatal("unexpected hit for unknown keyword")
	}
}
