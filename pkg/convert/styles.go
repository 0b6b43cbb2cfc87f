package convert

import (
	"strconv"
	"strings"

	"github.com/gardar/altoconv/pkg/alto"
	"github.com/gardar/altoconv/pkg/source"
)

const (
	// SerifFamily is the only family name classified as serif.
	SerifFamily = "Times New Roman"

	fontTypeSerif     = "serif"
	fontTypeSansSerif = "sans-serif"
	fontWidth         = "proportional"
)

// StyleKey is the derived formatting signature used for deduplication.
// Language and the literal family name are not part of the key.
type StyleKey struct {
	FontSize  string // Normalized size text
	Bold      bool
	Italic    bool
	SmallCaps bool
	Ambiguous bool // Family is not the known serif family
}

// ID renders the compact style identifier: the normalized size followed by
// one letter per flag in bold, italic, small-caps, ambiguous order.
func (k StyleKey) ID() string {
	var b strings.Builder
	b.WriteString("TS_")
	b.WriteString(k.FontSize)
	if k.Bold {
		b.WriteByte('b')
	}
	if k.Italic {
		b.WriteByte('i')
	}
	if k.SmallCaps {
		b.WriteByte('s')
	}
	if k.Ambiguous {
		b.WriteByte('a')
	}
	return b.String()
}

// FontType returns the family classification of the key.
func (k StyleKey) FontType() string {
	if k.Ambiguous {
		return fontTypeSansSerif
	}
	return fontTypeSerif
}

// FontStyle returns the space separated style flags of the key.
func (k StyleKey) FontStyle() string {
	tokens := []string{
		flagToken(k.Bold, "bold"),
		flagToken(k.Italic, "italics"),
		flagToken(k.SmallCaps, "smallcaps"),
	}
	var kept []string
	for _, t := range tokens {
		if t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

func flagToken(set bool, token string) string {
	if set {
		return token
	}
	return ""
}

// SignatureOf derives the style key of a formatting run.
func SignatureOf(run source.FormattingRun, normalize bool) StyleKey {
	return StyleKey{
		FontSize:  NormalizeFontSize(run.FontSize, normalize),
		Bold:      run.Bold,
		Italic:    run.Italic,
		SmallCaps: run.SmallCaps,
		Ambiguous: strings.TrimSpace(run.FontFamily) != SerifFamily,
	}
}

// NormalizeFontSize formats a raw font size. By default it keeps the
// historical rule: a value containing a decimal point gets a trailing "0"
// ("12." → "12.0", "10.5" → "10.50"), any other value gets ".0" appended.
// With normalize set the value is parsed and printed with one decimal
// instead. An empty size is treated as "0".
func NormalizeFontSize(raw string, normalize bool) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "0"
	}
	if normalize {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return strconv.FormatFloat(f, 'f', 1, 64)
		}
	}
	if strings.Contains(raw, ".") {
		return raw + "0"
	}
	return raw + ".0"
}

// StyleRegistry deduplicates formatting runs into shared text styles.
// Records keep their first-seen order. A registry belongs to one conversion
// unit and is not safe for concurrent use.
type StyleRegistry struct {
	normalize bool
	index     map[StyleKey]int
	records   []alto.TextStyle
}

// NewStyleRegistry creates an empty registry.
func NewStyleRegistry(normalizeFontSize bool) *StyleRegistry {
	return &StyleRegistry{
		normalize: normalizeFontSize,
		index:     make(map[StyleKey]int),
	}
}

// Intern returns the style id for the run, creating a record the first
// time its signature is seen. Existing records are never modified.
func (r *StyleRegistry) Intern(run source.FormattingRun) string {
	key := SignatureOf(run, r.normalize)
	if i, ok := r.index[key]; ok {
		return r.records[i].ID
	}

	record := alto.TextStyle{
		ID:        key.ID(),
		FontSize:  key.FontSize,
		FontStyle: key.FontStyle(),
		FontType:  key.FontType(),
		FontWidth: fontWidth,
	}
	r.index[key] = len(r.records)
	r.records = append(r.records, record)
	return record.ID
}

// Len returns the number of distinct styles.
func (r *StyleRegistry) Len() int {
	return len(r.records)
}

// Records returns a copy of the style table in first-seen order.
func (r *StyleRegistry) Records() []alto.TextStyle {
	out := make([]alto.TextStyle, len(r.records))
	copy(out, r.records)
	return out
}
