package gdocai

import (
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/altoconv/pkg/source"
)

// Variant is recorded on documents produced from Document AI responses
const Variant = "DocumentAI"

// SourceFromProto maps a Document AI response onto the source tree.
// Blocks, paragraphs, lines and tokens are nested by text anchor
// containment. Each token becomes one formatting run whose characters are
// the page symbols inside the token, or the token text as a single
// character when the processor returned no symbols.
func SourceFromProto(doc *documentaipb.Document, name string) *source.Document {
	out := &source.Document{
		Name:     name,
		FileName: name,
		Variant:  Variant,
	}
	text := []rune(doc.GetText())
	for i, page := range doc.GetPages() {
		out.Pages = append(out.Pages, pageSource(page, text, i+1))
	}
	return out
}

// pageMapper converts the elements of one page
type pageMapper struct {
	page *documentaipb.Document_Page
	text []rune
	dim  *documentaipb.Document_Page_Dimension
}

func pageSource(page *documentaipb.Document_Page, text []rune, index int) source.Page {
	m := &pageMapper{page: page, text: text, dim: page.GetDimension()}
	out := source.Page{
		Index:  index,
		Width:  round(float64(m.dim.GetWidth())),
		Height: round(float64(m.dim.GetHeight())),
	}

	assigned := make([]bool, len(page.GetParagraphs()))
	for _, block := range page.GetBlocks() {
		blk := source.Block{Type: source.TypeText, Box: m.box(block.GetLayout())}
		for i, par := range page.GetParagraphs() {
			if !contains(block.GetLayout(), par.GetLayout()) {
				continue
			}
			assigned[i] = true
			blk.Paragraphs = append(blk.Paragraphs, m.paragraph(par))
		}
		out.Blocks = append(out.Blocks, blk)
	}

	// paragraphs outside every block share one more block
	var loose source.Block
	for i, par := range page.GetParagraphs() {
		if assigned[i] {
			continue
		}
		p := m.paragraph(par)
		if len(loose.Paragraphs) == 0 {
			loose.Box = p.Box
		} else {
			loose.Box = union(loose.Box, p.Box)
		}
		loose.Paragraphs = append(loose.Paragraphs, p)
	}
	if len(loose.Paragraphs) > 0 {
		loose.Type = source.TypeText
		out.Blocks = append(out.Blocks, loose)
	}
	return out
}

func (m *pageMapper) paragraph(par *documentaipb.Document_Page_Paragraph) source.Paragraph {
	out := source.Paragraph{Box: m.box(par.GetLayout())}
	for _, line := range m.page.GetLines() {
		if contains(par.GetLayout(), line.GetLayout()) {
			out.Lines = append(out.Lines, m.line(line))
		}
	}
	return out
}

func (m *pageMapper) line(line *documentaipb.Document_Page_Line) source.Line {
	out := source.Line{Box: m.box(line.GetLayout())}
	for _, token := range m.page.GetTokens() {
		if contains(line.GetLayout(), token.GetLayout()) {
			out.Runs = append(out.Runs, m.token(token))
		}
	}
	return out
}

// token converts a token into a run. A detected break adds a trailing space
// character.
func (m *pageMapper) token(token *documentaipb.Document_Page_Token) source.FormattingRun {
	run := source.FormattingRun{}
	if langs := token.GetDetectedLanguages(); len(langs) > 0 {
		run.Language = langs[0].GetLanguageCode()
	}
	if style := token.GetStyleInfo(); style != nil {
		run.FontFamily = style.GetFontType()
		if size := style.GetFontSize(); size > 0 {
			run.FontSize = strconv.Itoa(int(size))
		}
		run.Bold = style.GetBold()
		run.Italic = style.GetItalic()
		run.SmallCaps = style.GetSmallcaps()
	}

	for _, sym := range m.page.GetSymbols() {
		if !contains(token.GetLayout(), sym.GetLayout()) {
			continue
		}
		text := strings.TrimSpace(textFromLayout(sym.GetLayout(), m.text))
		run.Chars = append(run.Chars, source.Char{
			Box:        m.box(sym.GetLayout()),
			Text:       text,
			Confidence: confidence(sym.GetLayout()),
		})
	}
	if len(run.Chars) == 0 {
		run.Chars = []source.Char{{
			Box:        m.box(token.GetLayout()),
			Text:       strings.TrimSpace(textFromLayout(token.GetLayout(), m.text)),
			Confidence: confidence(token.GetLayout()),
		}}
	}

	switch token.GetDetectedBreak().GetType() {
	case documentaipb.Document_Page_Token_DetectedBreak_SPACE, documentaipb.Document_Page_Token_DetectedBreak_WIDE_SPACE:
		last := run.Chars[len(run.Chars)-1].Box
		run.Chars = append(run.Chars, source.Char{
			Box:  source.NewBox(last.Right, last.Top, last.Right, last.Bottom),
			Text: " ",
		})
	}
	return run
}

// box converts a bounding polygon into pixel edges. Normalized vertices are
// scaled by the page dimension; absolute vertices are used as they are.
func (m *pageMapper) box(layout *documentaipb.Document_Page_Layout) source.Box {
	poly := layout.GetBoundingPoly()
	var xs, ys []float64
	if nv := poly.GetNormalizedVertices(); len(nv) > 0 {
		w, h := float64(m.dim.GetWidth()), float64(m.dim.GetHeight())
		for _, v := range nv {
			xs = append(xs, float64(v.GetX())*w)
			ys = append(ys, float64(v.GetY())*h)
		}
	} else {
		for _, v := range poly.GetVertices() {
			xs = append(xs, float64(v.GetX()))
			ys = append(ys, float64(v.GetY()))
		}
	}
	if len(xs) == 0 {
		return source.Box{}
	}
	return source.NewBox(round(minOf(xs)), round(minOf(ys)), round(maxOf(xs)), round(maxOf(ys)))
}

// confidence scales a layout confidence to the 0-100 range
func confidence(layout *documentaipb.Document_Page_Layout) float64 {
	return math.Round(float64(layout.GetConfidence())*10000) / 100
}

func union(a, b source.Box) source.Box {
	return source.NewBox(min(a.Left, b.Left), min(a.Top, b.Top), max(a.Right, b.Right), max(a.Bottom, b.Bottom))
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, f := range v[1:] {
		m = min(m, f)
	}
	return m
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, f := range v[1:] {
		m = max(m, f)
	}
	return m
}

func round(f float64) int {
	return int(math.Round(f))
}
