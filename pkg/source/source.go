// Package source defines the parsed OCR tree that every input provider
// produces and the layout converter consumes.
//
// The hierarchy mirrors what OCR engines report at character granularity:
// Document → Pages → Blocks → Paragraphs → Lines → FormattingRuns → Chars.
// Every node carries its own edges in a single pixel space. Providers
// (pkg/abbyy, pkg/hocr, pkg/gdocai) are responsible only for filling this
// tree; no geometry is derived here.
package source

import (
	"errors"
	"time"
)

// TypeText is the block classification that carries recognized text.
// Providers pass other block tags (pictures, tables, separators) through
// unchanged.
const TypeText = "Text"

var (
	// ErrInputNotFound is returned when the source file does not exist.
	ErrInputNotFound = errors.New("input not found")

	// ErrSchemaVariantUndetected is returned when none of the known schema
	// variants yields any page element.
	ErrSchemaVariantUndetected = errors.New("schema variant undetected")
)

// Document is one parsed OCR result
type Document struct {
	Name     string    // Base name used for id namespacing and output naming
	FileName string    // Source file name, recorded in the ALTO header
	Modified time.Time // Source modification time (processing date)
	Variant  string    // Detected schema variant, e.g. "v8", "v6", "hocr"
	Pages    []Page    // Pages in source order
}

// Page is a single recognized page
type Page struct {
	Index      int     // 1-based position in the source document
	Width      int     // Page width in pixels
	Height     int     // Page height in pixels
	Resolution int     // Scan resolution in dpi, 0 when unknown
	Blocks     []Block // Layout blocks of every type
}

// Block is a layout region with a classification tag
type Block struct {
	Type       string      // Opaque block tag, TypeText for text regions
	Box        Box         // Edges as stored by the engine
	Paragraphs []Paragraph // Empty for non-text blocks
}

// Paragraph groups lines within a block
type Paragraph struct {
	Box   Box
	Lines []Line
}

// Line is a single text line made of formatting runs
type Line struct {
	Box  Box
	Runs []FormattingRun
}

// FormattingRun is a contiguous span of characters sharing one style
type FormattingRun struct {
	Language   string // Engine language name or code
	FontFamily string // Font family as reported, e.g. "Times New Roman"
	FontSize   string // Raw font size text, e.g. "12." or "10.5"
	Bold       bool
	Italic     bool
	SmallCaps  bool
	Chars      []Char
}

// Char is one recognized character, or a word boundary when its text is
// empty or a single space.
type Char struct {
	Box        Box
	Text       string
	Confidence float64 // 0-100
}

// IsBoundary reports whether the character separates words.
func (c Char) IsBoundary() bool {
	return c.Text == "" || c.Text == " "
}

// Box is an axis-aligned rectangle given by its four edges
type Box struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// NewBox creates a box from its left, top, right and bottom edges.
func NewBox(l, t, r, b int) Box {
	return Box{Left: l, Top: t, Right: r, Bottom: b}
}

// Width returns Right - Left.
func (b Box) Width() int { return b.Right - b.Left }

// Height returns Bottom - Top.
func (b Box) Height() int { return b.Bottom - b.Top }

// Valid reports whether the box has no negative extent.
func (b Box) Valid() bool { return b.Right >= b.Left && b.Bottom >= b.Top }

// ContentChars counts the non-boundary characters of a line.
func (l Line) ContentChars() int {
	n := 0
	for _, run := range l.Runs {
		for _, c := range run.Chars {
			if !c.IsBoundary() {
				n++
			}
		}
	}
	return n
}
