package hocr

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gardar/altoconv/pkg/source"
)

// Variant is recorded on documents produced from hOCR
const Variant = "hOCR"

// ParseFile reads an hOCR file into a source document named after the file.
func ParseFile(path string) (*source.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", source.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", source.ErrInputNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	parsed, err := ParseHOCR(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Base(path)
	for _, ext := range []string{".hocr", ".html", ".htm", ".xhtml"} {
		base = strings.TrimSuffix(base, ext)
	}
	doc := ToSource(parsed, base)
	doc.FileName = path
	doc.Modified = info.ModTime()
	return doc, nil
}

// ToSource maps an hOCR document onto the source tree. Each content area
// becomes a text block; paragraphs and lines placed directly on the page are
// wrapped in one more text block. Every word becomes its own formatting run.
func ToSource(doc HOCR, name string) *source.Document {
	out := &source.Document{
		Name:     name,
		FileName: name,
		Variant:  Variant,
	}
	for i, p := range doc.Pages {
		out.Pages = append(out.Pages, pageSource(p, i+1))
	}
	return out
}

func pageSource(p Page, index int) source.Page {
	page := source.Page{
		Index:      index,
		Width:      round(p.BBox.X2 - p.BBox.X1),
		Height:     round(p.BBox.Y2 - p.BBox.Y1),
		Resolution: p.Resolution,
	}

	for _, a := range p.Areas {
		block := source.Block{Type: source.TypeText, Box: boxOf(a.BBox)}
		block.Paragraphs = paragraphsSource(a.Paragraphs, a.Lines)
		page.Blocks = append(page.Blocks, block)
	}

	if len(p.Paragraphs) > 0 || len(p.Lines) > 0 {
		block := source.Block{Type: source.TypeText}
		block.Paragraphs = paragraphsSource(p.Paragraphs, p.Lines)
		block.Box = spanOf(block.Paragraphs)
		page.Blocks = append(page.Blocks, block)
	}
	return page
}

// paragraphsSource converts paragraphs and appends loose lines as one
// further paragraph
func paragraphsSource(pars []Paragraph, loose []Line) []source.Paragraph {
	var out []source.Paragraph
	for _, par := range pars {
		sp := source.Paragraph{Box: boxOf(par.BBox)}
		for _, l := range par.Lines {
			sp.Lines = append(sp.Lines, lineSource(l, par.Lang))
		}
		if len(par.Words) > 0 {
			sp.Lines = append(sp.Lines, lineSource(Line{BBox: par.BBox, Words: par.Words}, par.Lang))
		}
		out = append(out, sp)
	}
	if len(loose) > 0 {
		var sp source.Paragraph
		for i, l := range loose {
			line := lineSource(l, "")
			if i == 0 {
				sp.Box = line.Box
			} else {
				sp.Box = union(sp.Box, line.Box)
			}
			sp.Lines = append(sp.Lines, line)
		}
		out = append(out, sp)
	}
	return out
}

// lineSource converts a line; lang is the language of the enclosing
// paragraph, used when neither the line nor a word names one
func lineSource(l Line, lang string) source.Line {
	if l.Lang != "" {
		lang = l.Lang
	}
	line := source.Line{Box: boxOf(l.BBox)}
	for _, w := range l.Words {
		line.Runs = append(line.Runs, wordRun(w, lang))
	}
	return line
}

// wordRun turns a word into a formatting run. Without character spans the
// word is a single character carrying the word box and confidence.
func wordRun(w Word, lineLang string) source.FormattingRun {
	run := source.FormattingRun{
		Language:   w.Lang,
		FontFamily: w.Font,
		FontSize:   w.FontSize,
		Bold:       w.Bold,
		Italic:     w.Italic,
	}
	if run.Language == "" {
		run.Language = lineLang
	}

	if len(w.Chars) == 0 {
		run.Chars = []source.Char{{
			Box:        boxOf(w.BBox),
			Text:       w.Text,
			Confidence: w.Confidence,
		}}
		return run
	}
	for _, c := range w.Chars {
		run.Chars = append(run.Chars, source.Char{
			Box:        boxOf(c.BBox),
			Text:       c.Text,
			Confidence: c.Confidence,
		})
	}
	return run
}

// spanOf bounds the paragraphs of a synthetic block
func spanOf(pars []source.Paragraph) source.Box {
	var box source.Box
	for i, p := range pars {
		if i == 0 {
			box = p.Box
			continue
		}
		box = union(box, p.Box)
	}
	return box
}

func union(a, b source.Box) source.Box {
	return source.NewBox(min(a.Left, b.Left), min(a.Top, b.Top), max(a.Right, b.Right), max(a.Bottom, b.Bottom))
}

func boxOf(b BoundingBox) source.Box {
	return source.NewBox(round(b.X1), round(b.Y1), round(b.X2), round(b.Y2))
}

func round(f float64) int {
	return int(math.Round(f))
}
