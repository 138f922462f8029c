package utils

import (
	"strings"
	"unicode"
)

// SplitText splits text into chunks of at most chunkSize runes, consecutive chunks sharing about overlap
// runes. A chunk ends at the last whitespace in its second half when there is one, so words stay whole.
func SplitText(text string, chunkSize int, overlap int) []string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if chunkSize <= 0 || len(runes) <= chunkSize {
		if text == "" {
			return nil
		}
		return []string{text}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	for start := 0; start < len(runes); {
		end := start + chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else if cut := lastSpace(runes, start+chunkSize/2, end); cut > 0 {
			end = cut
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// lastSpace returns the index of the last whitespace rune in runes[from:to], or -1.
func lastSpace(runes []rune, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}
