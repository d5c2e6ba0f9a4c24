package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes Portuguese question and response text so headers
// and scale tokens can be compared despite accent, case, whitespace and
// punctuation drift. Normalize is deterministic and idempotent; its output
// is used only as a comparison key, never shown to users.
type Normalizer struct{}

// NewNormalizer creates a new text normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize lower-cases, strips diacritics, replaces punctuation with
// spaces and collapses whitespace runs to a single space.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = stripDiacritics(text)
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true // swallow leading whitespace
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		// punctuation and whitespace both collapse to a single separator
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Tokens returns the set of word tokens of the normalized text
func (n *Normalizer) Tokens(text string) map[string]struct{} {
	normalized := n.Normalize(text)
	if normalized == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		set[tok] = struct{}{}
	}
	return set
}

// TokenOverlap computes the token-set overlap ratio of two strings:
// shared word tokens divided by total unique word tokens across both.
func (n *Normalizer) TokenOverlap(a, b string) float64 {
	ta := n.Tokens(a)
	tb := n.Tokens(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}
	shared := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}

// stripDiacritics decomposes to NFD and drops combining marks.
// Transformers carry state, so a fresh chain is built per call to keep
// the normalizer safe for concurrent use.
func stripDiacritics(text string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, text)
	if err != nil {
		return text
	}
	return out
}
