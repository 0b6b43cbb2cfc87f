package abbyy

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html/charset"

	"github.com/gardar/altoconv/pkg/source"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	// declEncoding captures the encoding label of an XML declaration
	declEncoding = regexp.MustCompile(`^(\s*<\?xml[^>]*?encoding\s*=\s*["'])([A-Za-z0-9._:-]+)(["'])`)
)

// ParseFile reads a FineReader XML file. The document name is the file name
// without its extension and the modification time is taken from the file.
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

	base := filepath.Base(path)
	doc, err := Parse(data, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.FileName = path
	doc.Modified = info.ModTime()
	return doc, nil
}

// Parse converts FineReader XML into a source document named name.
// The schema version is detected from the namespace of the page elements.
func Parse(data []byte, name string) (*source.Document, error) {
	data, err := toUTF8(data)
	if err != nil {
		return nil, err
	}

	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse FineReader XML: %w", err)
	}

	for _, version := range probeOrder {
		pages := findPages(root, version.Namespace())
		if len(pages) == 0 {
			continue
		}

		doc := &source.Document{
			Name:     name,
			FileName: name,
			Variant:  string(version),
		}
		p := &parser{ns: version.Namespace()}
		for i, node := range pages {
			page, err := p.page(node, i+1)
			if err != nil {
				return nil, err
			}
			doc.Pages = append(doc.Pages, page)
		}
		return doc, nil
	}

	return nil, source.ErrSchemaVariantUndetected
}

// toUTF8 transcodes data declared in another encoding and rewrites the
// declaration so the XML decoder reads it as UTF-8.
func toUTF8(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	m := declEncoding.FindSubmatchIndex(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(data[m[4]:m[5]]))
	if label == "utf-8" || label == "utf8" {
		return data, nil
	}

	enc, canonical := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("unsupported XML encoding %q", label)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", canonical, err)
	}
	return declEncoding.ReplaceAll(decoded, []byte("${1}UTF-8${3}")), nil
}

// findPages returns the page elements in the given namespace, in document order
func findPages(root *xmlquery.Node, ns string) []*xmlquery.Node {
	expr := fmt.Sprintf("//*[local-name()='page' and namespace-uri()=%q]", ns)
	return xmlquery.Find(root, expr)
}

// parser walks the element tree of one schema version
type parser struct {
	ns string
}

// children returns the direct child elements with the given local name
func (p *parser) children(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local && c.NamespaceURI == p.ns {
			out = append(out, c)
		}
	}
	return out
}

func (p *parser) page(n *xmlquery.Node, index int) (source.Page, error) {
	page := source.Page{Index: index}

	var err error
	if page.Width, err = intAttr(n, "width"); err != nil {
		return page, fmt.Errorf("page %d: %w", index, err)
	}
	if page.Height, err = intAttr(n, "height"); err != nil {
		return page, fmt.Errorf("page %d: %w", index, err)
	}
	if page.Resolution, err = intAttr(n, "resolution"); err != nil {
		return page, fmt.Errorf("page %d: %w", index, err)
	}

	for i, b := range p.children(n, "block") {
		block, err := p.block(b)
		if err != nil {
			return page, fmt.Errorf("page %d block %d: %w", index, i+1, err)
		}
		page.Blocks = append(page.Blocks, block)
	}
	return page, nil
}

func (p *parser) block(n *xmlquery.Node) (source.Block, error) {
	block := source.Block{Type: n.SelectAttr("blockType")}

	box, ok, err := edges(n)
	if err != nil {
		return block, err
	}
	if !ok {
		box, err = p.regionBox(n)
		if err != nil {
			return block, err
		}
	}
	block.Box = box

	for _, text := range p.children(n, "text") {
		for _, par := range p.children(text, "par") {
			paragraph, err := p.paragraph(par)
			if err != nil {
				return block, err
			}
			block.Paragraphs = append(block.Paragraphs, paragraph)
		}
	}
	return block, nil
}

// regionBox bounds the rectangles of a block region, used when the block
// itself carries no edges
func (p *parser) regionBox(n *xmlquery.Node) (source.Box, error) {
	var box source.Box
	first := true
	for _, region := range p.children(n, "region") {
		for _, rect := range p.children(region, "rect") {
			r, _, err := edges(rect)
			if err != nil {
				return box, fmt.Errorf("region: %w", err)
			}
			if first {
				box, first = r, false
				continue
			}
			box = union(box, r)
		}
	}
	return box, nil
}

func (p *parser) paragraph(n *xmlquery.Node) (source.Paragraph, error) {
	var par source.Paragraph
	for i, l := range p.children(n, "line") {
		line, err := p.line(l)
		if err != nil {
			return par, fmt.Errorf("line %d: %w", i+1, err)
		}
		if i == 0 {
			par.Box = line.Box
		} else {
			par.Box = union(par.Box, line.Box)
		}
		par.Lines = append(par.Lines, line)
	}
	return par, nil
}

func (p *parser) line(n *xmlquery.Node) (source.Line, error) {
	var line source.Line

	box, _, err := edges(n)
	if err != nil {
		return line, err
	}
	line.Box = box

	runs := p.children(n, "formatting")
	if len(runs) == 0 {
		chars, err := p.chars(n)
		if err != nil {
			return line, err
		}
		line.Runs = []source.FormattingRun{{Chars: chars}}
		return line, nil
	}

	for _, f := range runs {
		run := source.FormattingRun{
			Language:   f.SelectAttr("lang"),
			FontFamily: f.SelectAttr("ff"),
			FontSize:   f.SelectAttr("fs"),
			Bold:       boolAttr(f, "bold"),
			Italic:     boolAttr(f, "italic"),
			SmallCaps:  boolAttr(f, "smallcaps"),
		}
		if run.Chars, err = p.chars(f); err != nil {
			return line, err
		}
		line.Runs = append(line.Runs, run)
	}
	return line, nil
}

func (p *parser) chars(n *xmlquery.Node) ([]source.Char, error) {
	var chars []source.Char
	for i, c := range p.children(n, "charParams") {
		box, _, err := edges(c)
		if err != nil {
			return nil, fmt.Errorf("character %d: %w", i+1, err)
		}
		conf, err := floatAttr(c, "charConfidence")
		if err != nil {
			return nil, fmt.Errorf("character %d: %w", i+1, err)
		}
		chars = append(chars, source.Char{
			Box:        box,
			Text:       c.InnerText(),
			Confidence: conf,
		})
	}
	return chars, nil
}

// edges reads the l, t, r and b attributes of a node; ok is false when the
// node has none of them
func edges(n *xmlquery.Node) (box source.Box, ok bool, err error) {
	for _, name := range []string{"l", "t", "r", "b"} {
		if n.SelectAttr(name) != "" {
			ok = true
		}
	}
	if box.Left, err = intAttr(n, "l"); err != nil {
		return
	}
	if box.Top, err = intAttr(n, "t"); err != nil {
		return
	}
	if box.Right, err = intAttr(n, "r"); err != nil {
		return
	}
	box.Bottom, err = intAttr(n, "b")
	return
}

func union(a, b source.Box) source.Box {
	return source.NewBox(min(a.Left, b.Left), min(a.Top, b.Top), max(a.Right, b.Right), max(a.Bottom, b.Bottom))
}

// intAttr parses an integer attribute, rounding fractional values; a missing
// attribute reads as 0
func intAttr(n *xmlquery.Node, name string) (int, error) {
	v := strings.TrimSpace(n.SelectAttr(name))
	if v == "" {
		return 0, nil
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("attribute %s=%q is not a number", name, v)
	}
	return int(math.Round(f)), nil
}

func floatAttr(n *xmlquery.Node, name string) (float64, error) {
	v := strings.TrimSpace(n.SelectAttr(name))
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("attribute %s=%q is not a number", name, v)
	}
	return f, nil
}

// boolAttr accepts "true" and "1" as set
func boolAttr(n *xmlquery.Node, name string) bool {
	v := strings.TrimSpace(n.SelectAttr(name))
	return v == "1" || strings.EqualFold(v, "true")
}
