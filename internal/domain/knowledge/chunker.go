package knowledge

import "strings"

// Chunking parameters: sliding windows over plain text with a small overlap so
// sentences cut at a boundary stay retrievable, discarding fragments too short
// to embed usefully.
const (
	chunkSize    = 900
	chunkOverlap = 120
	chunkMinLen  = 40
)

// ChunkText splits plain text into overlapping windows.
func ChunkText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var chunks []string

	step := chunkSize - chunkOverlap
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		fragment := strings.TrimSpace(string(runes[start:end]))
		if len(fragment) >= chunkMinLen {
			chunks = append(chunks, fragment)
		}
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// EstimateTokens approximates the token count of a chunk. Four characters per
// token is close enough for budget accounting.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && text != "" {
		n = 1
	}
	return n
}
