// Package lexicon holds the static bilingual (English/Arabic) lookup tables
// used to classify queries and match products, plus the text helpers that
// make both sides comparable.
package lexicon

import (
	"strings"
	"unicode"
)

const tatweel = 'ـ'

// Normalize lowercases s, maps Arabic-Indic digits to ASCII, drops Arabic
// diacritics and tatweel, and folds hamza alef forms to bare alef and alef
// maqsura to ya, so "ألبان" and "البان" compare equal.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case r == 'أ', r == 'إ', r == 'آ', r == 'ٱ':
			b.WriteRune('ا')
		case r == 'ى':
			b.WriteRune('ي')
		case r == tatweel, unicode.Is(unicode.Mn, r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokens splits normalized text into words made of letters and digits.
func Tokens(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet returns the distinct tokens of text.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokens(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// IsASCII reports whether s has only ASCII runes.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// HasArabic reports whether s contains any Arabic letter.
func HasArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// ContainsKeyword reports whether normalized text mentions kw. Latin
// keywords must start on a word boundary and may carry a plural suffix;
// Arabic keywords match as substrings because articles and conjunctions
// attach to the word; they are normalized like text first.
func ContainsKeyword(text, kw string) bool {
	if kw == "" {
		return false
	}
	if !IsASCII(kw) {
		return strings.Contains(text, Normalize(kw))
	}
	for offset := 0; offset <= len(text); {
		idx := strings.Index(text[offset:], kw)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(kw)
		if leftBoundary(text, start) && rightBoundary(text, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

// ContainsAny reports whether text mentions any of the keywords.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if ContainsKeyword(text, kw) {
			return true
		}
	}
	return false
}

func leftBoundary(text string, start int) bool {
	if start == 0 {
		return true
	}
	return !isWordByte(text[start-1])
}

func rightBoundary(text string, end int) bool {
	rest := text[end:]
	switch {
	case strings.HasPrefix(rest, "es"):
		rest = rest[2:]
	case strings.HasPrefix(rest, "s"):
		rest = rest[1:]
	}
	return rest == "" || !isWordByte(rest[0])
}

func isWordByte(c byte) bool {
	return c >= 0x80 || c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
