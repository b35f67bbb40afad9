package mapper

import (
	"strings"
	"unicode/utf8"
)

const (
	// leafLineWidth is the maximum characters per wrapped leaf label line.
	leafLineWidth = 20
	// leafMaxLines caps how many lines a leaf label may occupy.
	leafMaxLines = 3
	// containerMaxLen is the longest container label shown untruncated.
	containerMaxLen = 40
	// containerKeep is how many characters survive container truncation.
	containerKeep = 37

	ellipsis = "..."
)

// FormatLabel derives the display label for a node from its original text.
//
// Container labels stay on a single line, truncated to 37 characters plus
// an ellipsis once the text exceeds 40. Leaf labels greedily pack words
// into lines of at most 20 characters across at most 3 lines; if words
// remain unconsumed the last line loses its trailing 3 characters to an
// ellipsis. Lines are joined with embedded newlines.
//
// The original text is never modified; reconstruction always reads the
// node's OriginalText, not the label produced here.
func FormatLabel(text string, container bool) string {
	if container {
		return truncateLabel(text)
	}
	return wrapLabel(text)
}

func truncateLabel(text string) string {
	runes := []rune(text)
	if len(runes) <= containerMaxLen {
		return text
	}
	return string(runes[:containerKeep]) + ellipsis
}

func wrapLabel(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	i := 0
	for i < len(words) && len(lines) < leafMaxLines {
		line := words[i]
		i++
		for i < len(words) && utf8.RuneCountInString(line)+1+utf8.RuneCountInString(words[i]) <= leafLineWidth {
			line += " " + words[i]
			i++
		}
		lines = append(lines, line)
	}

	if i < len(words) {
		last := []rune(lines[len(lines)-1])
		if len(last) > len(ellipsis) {
			last = last[:len(last)-len(ellipsis)]
		}
		lines[len(lines)-1] = string(last) + ellipsis
	}

	return strings.Join(lines, "\n")
}
