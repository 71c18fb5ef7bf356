// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"strings"
	"unicode/utf8"
)

// DefaultSummaryLength is the target summary length used by the CLI.
const DefaultSummaryLength = 500

// Summary shortens text to roughly n characters. It prefers to cut at a
// paragraph break between n/2 and 2n, then after the last sentence end
// before n+100, and otherwise cuts at n and appends "...". Text of n
// characters or fewer is returned unchanged.
func Summary(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	if i := indexRunes(runes, "\n\n", n/2, n*2); i >= 0 {
		return string(runes[:i])
	}

	end := -1
	for _, sep := range []string{". ", "! ", "? "} {
		if i := lastIndexRunes(runes, sep, 0, n+100); i > end {
			end = i
		}
	}
	if end >= 0 {
		return string(runes[:end+1])
	}
	return string(runes[:n]) + "..."
}

// indexRunes finds sep wholly inside runes[lo:hi] and returns its rune
// offset, or -1.
func indexRunes(runes []rune, sep string, lo, hi int) int {
	window, lo := clip(runes, lo, hi)
	i := strings.Index(window, sep)
	if i < 0 {
		return -1
	}
	return lo + utf8.RuneCountInString(window[:i])
}

// lastIndexRunes is the last-match counterpart of indexRunes.
func lastIndexRunes(runes []rune, sep string, lo, hi int) int {
	window, lo := clip(runes, lo, hi)
	i := strings.LastIndex(window, sep)
	if i < 0 {
		return -1
	}
	return lo + utf8.RuneCountInString(window[:i])
}

func clip(runes []rune, lo, hi int) (string, int) {
	lo = max(lo, 0)
	hi = min(hi, len(runes))
	if lo >= hi {
		return "", lo
	}
	return string(runes[lo:hi]), lo
}
