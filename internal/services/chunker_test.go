package services

import (
	"reflect"
	"strings"
	"testing"
)

func TestChunkShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	text := "Experienced backend engineer with Node.js and PostgreSQL"
	chunks := chunker.Chunk(text, 800)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("expected chunk %q, got %q", text, chunks[0])
	}
}

func TestChunkNormalizesWhitespace(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.Chunk("  foo\n\nbar\tbaz  ", 4)

	expected := []string{"foo", "bar", "baz"}
	if !reflect.DeepEqual(chunks, expected) {
		t.Errorf("expected %v, got %v", expected, chunks)
	}
}

func TestChunkReconstructsOriginalText(t *testing.T) {
	chunker := NewTextChunker()

	text := "Built a queue-backed evaluation service in Go.\n\nAdded retries,\ttimeouts and structured logging.\nDeployed behind a load balancer."
	normalized := strings.Join(strings.Fields(text), " ")

	for _, size := range []int{7, 25, 100, 800} {
		chunks := chunker.Chunk(text, size)

		for i, chunk := range chunks {
			if chunk == "" {
				t.Fatalf("size %d: chunk %d is empty", size, i)
			}
		}

		// Boundary trimming only drops spaces, so compare space-stripped.
		got := strings.ReplaceAll(strings.Join(chunks, ""), " ", "")
		want := strings.ReplaceAll(normalized, " ", "")
		if got != want {
			t.Errorf("size %d: chunks do not reconstruct input\ngot:  %s\nwant: %s", size, got, want)
		}
	}
}

func TestChunkSplitsOnRuneBoundaries(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.Chunk("héllo wörld", 5)

	expected := []string{"héllo", "wörl", "d"}
	if !reflect.DeepEqual(chunks, expected) {
		t.Errorf("expected %v, got %v", expected, chunks)
	}
}

func TestChunkEmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	if chunks := chunker.Chunk("", 800); chunks != nil {
		t.Errorf("expected nil for empty input, got %v", chunks)
	}
	if chunks := chunker.Chunk("   \n\t ", 800); chunks != nil {
		t.Errorf("expected nil for whitespace input, got %v", chunks)
	}
}

func TestChunkDefaultsChunkSize(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.Chunk("short text", 0)

	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("expected single chunk with default size, got %v", chunks)
	}
}
