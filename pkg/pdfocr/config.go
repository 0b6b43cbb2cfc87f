package pdfocr

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/altoconv/pkg/alto"
)

// OCRConfig holds user options for applying OCR to PDF
type OCRConfig struct {
	Debug     bool               // Draw the text layer visibly with word boxes
	Force     bool               // Force reapply OCR even if layer already exists
	LayerName string             // Base name of OCR layer (page number will be appended)
	StartPage int                // Start applying OCR from this page number
	DumpPDF   bool               // Log the head of the input PDF structure
	Logger    logrus.FieldLogger // Warnings and debug output, discarded when nil
	Font      FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() OCRConfig {
	return OCRConfig{
		LayerName: "OCR Text", // Will be formatted as "OCR Text (Page X)" in the final PDF
		StartPage: 1,
		Font:      DefaultFont,
	}
}

func (c OCRConfig) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// FontConfig contains font settings for OCR text rendering
type FontConfig struct {
	Name        string  // Sans-serif font used for styles that are not serif
	SerifName   string  // Font used for serif styles
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont uses the core Helvetica and Times fonts
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	SerifName:   "Times",
	Size:        10,
	AscentRatio: 0.718,
}

// fontFor picks the font family and style for a text style. The zero style
// selects the sans-serif font with no style.
func (f FontConfig) fontFor(style alto.TextStyle) (family, fontStyle string) {
	family = f.Name
	if style.FontType == "serif" && f.SerifName != "" {
		family = f.SerifName
	}
	for _, token := range strings.Fields(style.FontStyle) {
		switch token {
		case "bold":
			fontStyle += "B"
		case "italics":
			fontStyle += "I"
		}
	}
	return family, fontStyle
}
