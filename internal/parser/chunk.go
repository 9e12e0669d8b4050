package parser

import "strings"

// chunkText splits content into a sliding window of size runes with
// overlap runes shared between consecutive chunks. Rune boundaries keep
// the window from splitting inside a UTF-8 sequence. Every chunk except
// possibly the last is exactly size runes; consecutive chunks share
// exactly overlap runes at the boundary.
func chunkText(content string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}

	runes := []rune(strings.TrimSpace(content))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{string(runes)}
	}

	stride := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
