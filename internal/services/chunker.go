package services

import "strings"

// TextChunker splits normalized document text into fixed-size segments.
//
// All whitespace runs collapse to single spaces before splitting, so chunk
// boundaries may fall inside words. Returned chunks are never empty and keep
// the original order.
type TextChunker interface {
	Chunk(text string, chunkSize int) []string
}

const defaultChunkSize = 800

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

func (tc *textChunker) Chunk(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)

	var chunks []string
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		segment := strings.TrimSpace(string(runes[start:end]))
		if segment == "" {
			continue
		}

		chunks = append(chunks, segment)
	}

	return chunks
}
