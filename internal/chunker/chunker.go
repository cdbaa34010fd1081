package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/examprep/internal/doctree"
)

// DefaultChunkSize is the maximum chunk length in characters.
const DefaultChunkSize = 3000

// Config controls chunking behavior.
type Config struct {
	ChunkSize int // Maximum chunk size in characters.
}

// Normalize collapses every whitespace run to a single space and trims the
// ends. Page breaks and layout newlines from PDF extraction disappear here.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split breaks text into consecutive chunks of at most maxChars characters.
// Chunks cover the input with no gaps and no overlap, so joining them
// reproduces the input exactly. Empty input yields no chunks.
func Split(text string, maxChars int) []doctree.Chunk {
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}
	if text == "" {
		return nil
	}

	chunks := make([]doctree.Chunk, 0, utf8.RuneCountInString(text)/maxChars+1)
	start, count := 0, 0
	for i := range text {
		if count == maxChars {
			chunks = append(chunks, doctree.Chunk{Text: text[start:i], Index: len(chunks)})
			start, count = i, 0
		}
		count++
	}
	chunks = append(chunks, doctree.Chunk{Text: text[start:], Index: len(chunks)})
	return chunks
}

// ChunkText normalizes text and splits it according to cfg.
func ChunkText(text string, cfg Config) []doctree.Chunk {
	return Split(Normalize(text), cfg.ChunkSize)
}
