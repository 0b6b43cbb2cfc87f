// Package convert turns a parsed OCR tree into ALTO layout documents.
//
// Every output geometry is derived from the source edges rather than copied:
// strings are cut from the character stream and boxed from their characters,
// lines are the aggregate of their strings, text blocks keep the edges the
// engine stored for them and the print space is the aggregate of the text
// blocks. Formatting runs are deduplicated into a shared style table and
// character confidence is averaged once per output unit.
//
// Key Types:
//
// - Converter: Runs a conversion with a fixed set of Options
// - Unit: One rendered ALTO document with its statistics
// - StyleRegistry: Deduplicates formatting runs into text styles
// - Confidence: Accumulates character confidence for a unit
//
// Main Functions:
//
// - Aggregate: Bounding box of a set of boxes
// - Segment: Splits a character stream into words
// - Converter.Convert: Converts a source document into units
package convert

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gardar/altoconv/pkg/alto"
	"github.com/gardar/altoconv/pkg/source"
)

// Mode selects how pages are grouped into output units
type Mode string

const (
	// ModePerPage emits one ALTO document per source page.
	ModePerPage Mode = "per-page"

	// ModeDocument emits a single ALTO document covering all pages.
	ModeDocument Mode = "document"
)

// Options configures a conversion
type Options struct {
	Mode              Mode               // Unit grouping, ModePerPage by default
	Workers           int                // Pages converted concurrently in per-page mode
	TextBlockTypes    []string           // Block tags treated as text
	NormalizeFontSize bool               // Format font sizes with one decimal instead of the legacy rule
	Creator           string             // softwareCreator written in the header
	Version           string             // softwareVersion written in the header
	Logger            logrus.FieldLogger // Conversion log, discarded when nil
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() Options {
	return Options{
		Mode:           ModePerPage,
		Workers:        1,
		TextBlockTypes: []string{source.TypeText},
	}
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Stats summarizes what a unit contains
type Stats struct {
	TextBlocks     int
	TextLines      int
	Strings        int
	Styles         int
	Characters     int
	SkippedBlocks  int // Non-text blocks left out
	SkippedLines   int // Lines that produced no strings
	CorrectedWords int // Words whose corner geometry inverted
}

// Unit is one complete output document
type Unit struct {
	Name       string     // Unit name, base name plus page index in per-page mode
	Pages      []int      // Source page indexes covered by the unit
	ALTO       *alto.Alto // Output tree
	XML        string     // Rendered ALTO XML
	Confidence float64    // Average character confidence
	Stats      Stats
}

// Converter converts source documents into ALTO units
type Converter struct {
	opts Options
}

// New creates a converter, filling unset options with defaults.
func New(opts Options) *Converter {
	def := DefaultOptions()
	if opts.Mode == "" {
		opts.Mode = def.Mode
	}
	if opts.Workers < 1 {
		opts.Workers = def.Workers
	}
	if len(opts.TextBlockTypes) == 0 {
		opts.TextBlockTypes = def.TextBlockTypes
	}
	return &Converter{opts: opts}
}

// Options returns the effective options of the converter.
func (c *Converter) Options() Options {
	return c.opts
}

// Convert converts a source document into one unit per page, or a single
// unit in document mode. Every unit is built and rendered in memory; on the
// first error no units are returned.
func (c *Converter) Convert(ctx context.Context, doc *source.Document) ([]Unit, error) {
	if doc == nil {
		return nil, fmt.Errorf("source document is nil")
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("source document %s contains no pages", doc.Name)
	}

	log := c.opts.logger().WithFields(logrus.Fields{
		"document": doc.Name,
		"variant":  doc.Variant,
		"mode":     c.opts.Mode,
	})

	switch c.opts.Mode {
	case ModeDocument:
		unit, err := c.convertUnit(doc, doc.Name, doc.Pages)
		if err != nil {
			return nil, err
		}
		log.WithField("pages", len(doc.Pages)).Info("converted document")
		return []Unit{unit}, nil

	case ModePerPage:
		units := make([]Unit, len(doc.Pages))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.opts.Workers)

		for i := range doc.Pages {
			page := doc.Pages[i]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				unit, err := c.convertUnit(doc, PageUnitName(doc.Name, page.Index), []source.Page{page})
				if err != nil {
					return err
				}
				units[i] = unit
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		log.WithField("units", len(units)).Info("converted document")
		return units, nil

	default:
		return nil, fmt.Errorf("unknown conversion mode %q", c.opts.Mode)
	}
}

// convertUnit builds and renders one unit with fresh builder state
func (c *Converter) convertUnit(doc *source.Document, name string, pages []source.Page) (Unit, error) {
	b := newBuilder(name, c.opts)

	tree, err := b.build(doc, pages)
	if err != nil {
		return Unit{}, err
	}

	xml, err := alto.GenerateALTODocument(tree)
	if err != nil {
		return Unit{}, b.fail(err, 0, 0, 0)
	}
	if err := b.advance(StageSerialized); err != nil {
		return Unit{}, err
	}

	indexes := make([]int, 0, len(pages))
	for _, p := range pages {
		indexes = append(indexes, p.Index)
	}

	return Unit{
		Name:       name,
		Pages:      indexes,
		ALTO:       tree,
		XML:        xml,
		Confidence: b.average,
		Stats:      b.stats(),
	}, nil
}

// PageUnitName derives the unit name of a page in per-page mode.
func PageUnitName(base string, pageIndex int) string {
	return fmt.Sprintf("%s_%04d", base, pageIndex)
}

// idNamespace turns a unit name into a prefix usable in XML ids
func idNamespace(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	ns := b.String()
	if ns == "" {
		return "_"
	}
	if first := []rune(ns)[0]; !unicode.IsLetter(first) && first != '_' {
		ns = "_" + ns
	}
	return ns
}
