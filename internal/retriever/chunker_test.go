package retriever

import (
	"strings"
	"testing"
)

func TestSplitTextNoOverlap(t *testing.T) {
	chunks := SplitText("abcdefghij", 4, 0)

	want := []string{"abcd", "efgh", "ij"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %v", len(chunks), len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk[%d] = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplitTextOverlap(t *testing.T) {
	chunks := SplitText("abcdefgh", 4, 2)

	// Step is 2, so consecutive chunks share their trailing half.
	want := []string{"abcd", "cdef", "efgh"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %v", len(chunks), len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk[%d] = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplitTextOverlapClamped(t *testing.T) {
	// Overlap >= size would stall the window; it must still terminate and
	// cover the whole text.
	chunks := SplitText("abcdef", 3, 5)
	if len(chunks) == 0 {
		t.Fatal("expected chunks despite oversized overlap")
	}
	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, "f") {
		t.Errorf("clamped split lost the tail: %v", chunks)
	}
}

func TestSplitTextTrimsWhitespace(t *testing.T) {
	chunks := SplitText("ab        cd", 4, 0)

	for _, c := range chunks {
		if strings.TrimSpace(c) != c {
			t.Errorf("chunk %q not trimmed", c)
		}
		if c == "" {
			t.Error("whitespace-only chunk survived")
		}
	}
}

func TestSplitTextEdgeCases(t *testing.T) {
	if got := SplitText("", 100, 10); len(got) != 0 {
		t.Errorf("empty text: got %v", got)
	}
	if got := SplitText("hello", 0, 0); got != nil {
		t.Errorf("zero size: got %v", got)
	}
	if got := SplitText("hi", 100, 10); len(got) != 1 || got[0] != "hi" {
		t.Errorf("text shorter than size: got %v", got)
	}
}

func TestSplitTextRuneBoundaries(t *testing.T) {
	// Multibyte text must split on runes, never mid-codepoint.
	text := strings.Repeat("₹", 10)
	chunks := SplitText(text, 4, 0)

	for _, c := range chunks {
		for _, r := range c {
			if r != '₹' {
				t.Fatalf("chunk %q contains mangled rune %q", c, r)
			}
		}
	}
}
