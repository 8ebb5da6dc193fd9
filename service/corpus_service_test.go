package service

import (
	"strings"
	"testing"
)

func TestSanitizeCorpusText(t *testing.T) {
	in := "Om\x00 Gam\t\tGanapataye\r\n  Namaha\n"
	got := SanitizeCorpusText(in)
	want := "Om Gam Ganapataye Namaha"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestChunkByWords_WindowAndOverlap(t *testing.T) {
	words := make([]string, 10)
	for i := range words {
		words[i] = string(rune('a' + i))
	}
	text := strings.Join(words, " ")

	chunks := ChunkByWords(text, 4, 2)

	// Stride is size-overlap = 2, so windows start at 0, 2, 4, 6
	want := []string{"a b c d", "c d e f", "e f g h", "g h i j"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %v", len(chunks), len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestChunkByWords_ShortText(t *testing.T) {
	chunks := ChunkByWords("only three words", 220, 40)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != "only three words" {
		t.Errorf("chunk = %q", chunks[0])
	}
}

func TestChunkByWords_EmptyText(t *testing.T) {
	if chunks := ChunkByWords("", 220, 40); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %v", chunks)
	}
}

func TestChunkByWords_BadParametersStillTerminate(t *testing.T) {
	// overlap >= size would stall the window; it must be ignored
	chunks := ChunkByWords("a b c d e f", 2, 5)
	if len(chunks) != 3 {
		t.Errorf("got %d chunks, want 3: %v", len(chunks), chunks)
	}
}
