package service

import (
	"strings"
)

// Default chunking window for scripture ingestion, in words
const (
	DefaultChunkSize    = 220
	DefaultChunkOverlap = 40
)

// SanitizeCorpusText normalizes scripture text before chunking: strips NUL
// bytes and collapses all whitespace runs to single spaces
func SanitizeCorpusText(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.Join(strings.Fields(s), " ")
}

// ChunkByWords splits text into overlapping word windows. Overlap keeps a
// verse that straddles a boundary retrievable from either side.
func ChunkByWords(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var out []string
	for i := 0; i < len(words); i += size - overlap {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return out
}
