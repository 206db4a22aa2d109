package retriever

import "strings"

// SplitText cuts text into chunks of at most size runes, with overlap
// runes shared between consecutive chunks. Whitespace-only chunks are
// dropped. An overlap >= size is clamped to size-1 so the window always
// advances.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap >= size {
		overlap = size - 1
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(text)
	step := size - overlap

	chunks := []string{}
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
