package speech

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	linkRe    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	boldRe    = regexp.MustCompile(`\*\*([^*]*)\*\*|__([^_]*)__`)
	headingRe = regexp.MustCompile(`(?m)^\s*#{1,6}\s+`)
	bulletRe  = regexp.MustCompile(`(?m)^\s*(?:[-*+•·▪►]|\d+[.)])\s+`)
)

// CleanText strips chat markup so the text reads naturally when spoken. Link text
// is kept, URLs, emphasis markers, emoji and bullets are dropped and whitespace is
// collapsed. Cleaning already-clean text returns it unchanged.
func CleanText(s string) string {
	for {
		next := cleanOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = linkRe.ReplaceAllString(s, "$1")
	s = boldRe.ReplaceAllString(s, "$1$2")
	s = headingRe.ReplaceAllString(s, "")
	s = bulletRe.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '*' || r == '`' || r == '•':
			return -1
		case isEmoji(r):
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r == 0xFE0F || r == 0x200D || r == 0x20E3:
		return true
	case r >= 0xE0020 && r <= 0xE007F:
		return true
	}
	return unicode.Is(unicode.So, r) && r > 0x2000
}

// PrepareText cleans s and bounds it to max runes, cutting at the last word
// boundary when one is available.
func PrepareText(s string, max int) string {
	s = CleanText(s)
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if runes[max] != ' ' {
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimSpace(cut)
}
