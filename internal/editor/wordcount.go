package editor

import (
	"strings"
	"unicode"
)

// WordCount counts the words of a markdown draft, ignoring fenced code
// blocks and markup characters
func WordCount(markdown string) int {
	count := 0
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, field := range strings.Fields(trimmed) {
			if isWord(field) {
				count++
			}
		}
	}
	return count
}

// isWord rejects tokens made only of markup such as "#", "-", "**" or "1."
func isWord(token string) bool {
	if isListNumber(token) {
		return false
	}
	return strings.IndexFunc(token, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

func isListNumber(token string) bool {
	if !strings.HasSuffix(token, ".") && !strings.HasSuffix(token, ")") {
		return false
	}
	digits := token[:len(token)-1]
	return digits != "" && strings.TrimLeftFunc(digits, unicode.IsDigit) == ""
}
