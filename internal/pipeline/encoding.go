package pipeline

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodedText is the outcome of resolving an unknown-encoding byte buffer
type DecodedText struct {
	Text     string
	Encoding string
	// Degraded is set when no candidate decoded cleanly and known
	// corruption patterns were substituted in the best candidate.
	Degraded bool
}

// EncodingResolver recovers clean text from a raw byte buffer whose encoding
// is unknown or incorrect. Candidates are tried in a fixed priority order;
// a candidate is accepted only when decoding succeeds and the result carries
// no replacement characters and none of the known mojibake sequences.
type EncodingResolver struct {
	candidates []encodingCandidate
}

type encodingCandidate struct {
	name string
	enc  encoding.Encoding
}

// NewEncodingResolver creates a resolver with the standard candidate order:
// UTF-8, ISO-8859-1, Windows-1252.
func NewEncodingResolver() *EncodingResolver {
	return &EncodingResolver{
		candidates: []encodingCandidate{
			{"UTF-8", unicode.UTF8},
			{"ISO-8859-1", charmap.ISO8859_1},
			{"Windows-1252", charmap.Windows1252},
		},
	}
}

// mojibakeRepairs maps UTF-8-read-as-Latin-1 sequences back to the intended
// Portuguese characters. Applied only in degraded mode, when every candidate
// still shows corruption.
var mojibakeRepairs = []struct{ bad, good string }{
	{"Ã¡", "á"}, {"Ã¢", "â"}, {"Ã£", "ã"}, {"Ã ", "à"},
	{"Ã©", "é"}, {"Ãª", "ê"},
	{"Ã­", "í"},
	{"Ã³", "ó"}, {"Ã´", "ô"}, {"Ãµ", "õ"},
	{"Ãº", "ú"}, {"Ã¼", "ü"},
	{"Ã§", "ç"},
	{"Ã", "Á"}, {"Ã", "É"}, {"Ã", "Í"}, {"Ã", "Ó"}, {"Ã", "Ú"},
	{"Ã", "Ç"}, {"Ã", "Ã"}, {"Ã", "Õ"},
	// same sequences as read through Windows-1252, which remaps the C1 range
	{"Ã‰", "É"}, {"Ã“", "Ó"}, {"Ãš", "Ú"},
	{"Ã‡", "Ç"}, {"Ãƒ", "Ã"}, {"Ã•", "Õ"},
	{"Â ", " "},
}

// Resolve decodes raw into text, returning the encoding label used.
// Total failure is reserved for empty or unreadable input.
func (r *EncodingResolver) Resolve(raw []byte) (DecodedText, error) {
	if len(raw) == 0 {
		return DecodedText{}, ErrEmptyInput
	}

	best := DecodedText{}
	bestScore := -1

	for _, cand := range r.candidates {
		text, ok := decodeWith(cand.enc, raw)
		if !ok {
			continue
		}
		score := suspiciousCount(text)
		if score == 0 {
			return DecodedText{Text: text, Encoding: cand.name}, nil
		}
		if bestScore < 0 || score < bestScore {
			best = DecodedText{Text: text, Encoding: cand.name}
			bestScore = score
		}
	}

	if bestScore < 0 {
		return DecodedText{}, ErrEncodingExhausted
	}

	// No candidate was clean: repair known corruption patterns in the
	// best-scoring candidate and flag the result as degraded.
	repaired := best.Text
	for _, sub := range mojibakeRepairs {
		repaired = strings.ReplaceAll(repaired, sub.bad, sub.good)
	}
	best.Text = repaired
	best.Degraded = true
	return best, nil
}

func decodeWith(enc encoding.Encoding, raw []byte) (string, bool) {
	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil || !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}

// suspiciousCount counts replacement characters plus known mojibake
// sequences left in decoded text.
func suspiciousCount(text string) int {
	n := strings.Count(text, string(utf8.RuneError))
	for _, sub := range mojibakeRepairs {
		n += strings.Count(text, sub.bad)
	}
	return n
}
