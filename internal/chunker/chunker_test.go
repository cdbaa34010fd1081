package chunker

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t\f ", ""},
		{"collapses runs", "Operating   Systems\n\n--- Page 2 ---\nScheduling", "Operating Systems --- Page 2 --- Scheduling"},
		{"trims ends", "\n  paging  \n", "paging"},
		{"already normal", "a b c", "a b c"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSplit_CoverageAndBounds(t *testing.T) {
	texts := []string{
		"a",
		strings.Repeat("x", 3000),
		strings.Repeat("x", 3001),
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300),
	}
	sizes := []int{1, 7, 100, 3000}

	for _, text := range texts {
		for _, size := range sizes {
			chunks := Split(text, size)

			var rebuilt strings.Builder
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("size %d: chunk %d has index %d", size, i, c.Index)
				}
				if len(c.Text) > size {
					t.Errorf("size %d: chunk %d has length %d", size, i, len(c.Text))
				}
				if c.Text == "" {
					t.Errorf("size %d: chunk %d is empty", size, i)
				}
				rebuilt.WriteString(c.Text)
			}
			if rebuilt.String() != text {
				t.Errorf("size %d: concatenated chunks do not reproduce input", size)
			}

			want := (len(text) + size - 1) / size
			if len(chunks) != want {
				t.Errorf("size %d, len %d: expected %d chunks, got %d", size, len(text), want, len(chunks))
			}
		}
	}
}

func TestSplit_LastChunkShorter(t *testing.T) {
	chunks := Split("abcdefgh", 3)
	want := []string{"abc", "def", "gh"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Text)
		}
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	if chunks := Split("", 10); len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestSplit_DefaultSizeOnZero(t *testing.T) {
	chunks := Split(strings.Repeat("y", DefaultChunkSize+1), 0)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks with default size, got %d", len(chunks))
	}
	if len(chunks[0].Text) != DefaultChunkSize {
		t.Errorf("expected first chunk of %d chars, got %d", DefaultChunkSize, len(chunks[0].Text))
	}
}

func TestSplit_MultibyteRunesNotCut(t *testing.T) {
	text := "héllo wörld ünïcode"
	chunks := Split(text, 4)
	var rebuilt strings.Builder
	for i, c := range chunks {
		if n := len([]rune(c.Text)); n > 4 {
			t.Errorf("chunk %d has %d runes", i, n)
		}
		rebuilt.WriteString(c.Text)
	}
	if rebuilt.String() != text {
		t.Errorf("expected %q, got %q", text, rebuilt.String())
	}
}

func TestChunkText_NormalizesFirst(t *testing.T) {
	chunks := ChunkText("  alpha \n\n beta  ", Config{ChunkSize: 100})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "alpha beta" {
		t.Errorf("expected %q, got %q", "alpha beta", chunks[0].Text)
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("expected 0 tokens for empty text")
	}
	if EstimateTokens("x") != 1 {
		t.Errorf("expected 1 token minimum, got %d", EstimateTokens("x"))
	}
	if got := EstimateTokens(strings.Repeat("word ", 100)); got != 133 {
		t.Errorf("expected 133 tokens, got %d", got)
	}
}
