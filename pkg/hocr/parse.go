package hocr

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	classPage  = "ocr_page"
	classArea  = "ocr_carea"
	classPar   = "ocr_par"
	classWord  = "ocrx_word"
	classCInfo = "ocrx_cinfo"
)

// lineClasses are the hOCR classes that mark a text line
var lineClasses = []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"}

var metaCharset = regexp.MustCompile(`(?i)charset\s*=\s*["']?([A-Za-z0-9._:-]+)`)

// ParseHOCR converts raw hOCR data into a structured HOCR object.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	decoded, err := decode(data)
	if err != nil {
		return result, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	extractDocumentMeta(&result, doc)

	for _, n := range collect(doc, classPage)[classPage] {
		result.Pages = append(result.Pages, processPage(n))
	}

	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return result, nil
}

// decode converts data to UTF-8 using the charset named in the document.
// Labels that cannot be resolved are read as ISO-8859-1.
func decode(data []byte) ([]byte, error) {
	m := metaCharset.FindSubmatch(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(m[1]))
	if label == "utf-8" || label == "utf8" {
		return data, nil
	}

	var enc encoding.Encoding = charmap.ISO8859_1
	if e, _ := charset.Lookup(label); e != nil {
		enc = e
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", label, err)
	}
	return decoded, nil
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// parseBox reads four coordinates from a title property
func parseBox(values []string) (BoundingBox, bool) {
	if len(values) < 4 {
		return BoundingBox{}, false
	}
	var c [4]float64
	for i := range c {
		f, err := strconv.ParseFloat(values[i], 64)
		if err != nil {
			return BoundingBox{}, false
		}
		c[i] = f
	}
	return NewBoundingBox(c[0], c[1], c[2], c[3]), true
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no valid bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	if b, ok := parseBox(ParseTitle(title)["bbox"]); ok {
		return &b
	}
	return nil
}

// extractDocumentMeta extracts document-level metadata from the head section
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "html":
			if lang := attr(n, "lang"); lang != "" {
				result.Language = lang
			} else if lang := attr(n, "xml:lang"); lang != "" {
				result.Language = lang
			}
		case "title":
			if n.FirstChild != nil {
				result.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "meta":
			name, content := attr(n, "name"), attr(n, "content")
			switch {
			case name == "ocr-system":
				result.System = content
			case strings.HasPrefix(name, "ocr-"):
				result.Metadata[name] = content
			case name == "dc.language":
				result.Language = content
			}
		case "body":
			return false
		}
		return true
	})
}

func processPage(n *html.Node) Page {
	page := Page{ID: attr(n, "id"), Lang: attr(n, "lang")}

	props := ParseTitle(attr(n, "title"))
	if b, ok := parseBox(props["bbox"]); ok {
		page.BBox = b
	}
	if image := props["image"]; len(image) > 0 {
		page.ImageName = strings.Trim(strings.Join(image, " "), `"`)
	}
	if ppageno := props["ppageno"]; len(ppageno) > 0 {
		page.PageNumber, _ = strconv.Atoi(ppageno[0])
	}
	if res := props["scan_res"]; len(res) > 0 {
		page.Resolution, _ = strconv.Atoi(res[0])
	}

	found := collect(n, append([]string{classArea, classPar}, lineClasses...)...)
	for _, a := range found[classArea] {
		page.Areas = append(page.Areas, processArea(a))
	}
	for _, p := range found[classPar] {
		page.Paragraphs = append(page.Paragraphs, processParagraph(p))
	}
	page.Lines = processLines(found)
	return page
}

func processArea(n *html.Node) Area {
	area := Area{ID: attr(n, "id"), Lang: attr(n, "lang"), BBox: titleBox(n)}

	found := collect(n, append([]string{classPar}, lineClasses...)...)
	for _, p := range found[classPar] {
		area.Paragraphs = append(area.Paragraphs, processParagraph(p))
	}
	area.Lines = processLines(found)
	return area
}

func processParagraph(n *html.Node) Paragraph {
	par := Paragraph{ID: attr(n, "id"), Lang: attr(n, "lang"), BBox: titleBox(n)}

	found := collect(n, append([]string{classWord}, lineClasses...)...)
	par.Lines = processLines(found)
	for _, w := range found[classWord] {
		if word, ok := processWord(w); ok {
			par.Words = append(par.Words, word)
		}
	}
	return par
}

// processLines converts the collected line nodes of every line class
func processLines(found map[string][]*html.Node) []Line {
	var nodes []*html.Node
	for _, class := range lineClasses {
		nodes = append(nodes, found[class]...)
	}
	sortByPosition(nodes)

	var lines []Line
	for _, n := range nodes {
		lines = append(lines, processLine(n))
	}
	return lines
}

func processLine(n *html.Node) Line {
	line := Line{ID: attr(n, "id"), Lang: attr(n, "lang")}

	props := ParseTitle(attr(n, "title"))
	if b, ok := parseBox(props["bbox"]); ok {
		line.BBox = b
	}
	if baseline := props["baseline"]; len(baseline) > 0 {
		line.Baseline = strings.Join(baseline, " ")
	}

	for _, w := range collect(n, classWord)[classWord] {
		if word, ok := processWord(w); ok {
			line.Words = append(line.Words, word)
		}
	}
	return line
}

// processWord extracts a word with its font properties and character spans.
// Words without text are dropped.
func processWord(n *html.Node) (Word, bool) {
	word := Word{ID: attr(n, "id"), Lang: attr(n, "lang")}

	props := ParseTitle(attr(n, "title"))
	if b, ok := parseBox(props["bbox"]); ok {
		word.BBox = b
	}
	if conf := props["x_wconf"]; len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	if font := props["x_font"]; len(font) > 0 {
		word.Font = strings.Trim(strings.Join(font, " "), `"`)
	}
	if size := props["x_fsize"]; len(size) > 0 {
		word.FontSize = size[0]
	}

	walk(n, func(c *html.Node) bool {
		if c.Type != html.ElementNode {
			return true
		}
		switch c.Data {
		case "strong", "b":
			word.Bold = true
		case "em", "i":
			word.Italic = true
		}
		if hasClass(c, classCInfo) {
			word.Chars = append(word.Chars, processChar(c))
			return false
		}
		return true
	})

	word.Text = textContent(n)
	return word, word.Text != ""
}

func processChar(n *html.Node) Char {
	ch := Char{Text: textContent(n)}
	props := ParseTitle(attr(n, "title"))
	if b, ok := parseBox(props["x_bboxes"]); ok {
		ch.BBox = b
	}
	if conf := props["x_conf"]; len(conf) > 0 {
		ch.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	return ch
}

// collect returns the outermost descendants of n carrying one of the given
// classes, grouped by the class they matched, in document order
func collect(n *html.Node, classes ...string) map[string][]*html.Node {
	found := make(map[string][]*html.Node)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(node *html.Node) bool {
			if node.Type != html.ElementNode {
				return true
			}
			for _, class := range classes {
				if hasClass(node, class) {
					found[class] = append(found[class], node)
					return false
				}
			}
			return true
		})
	}
	return found
}

// walk visits n and its descendants depth first; returning false from fn
// skips the children of the visited node
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// sortByPosition orders nodes by their position in the document
func sortByPosition(nodes []*html.Node) {
	if len(nodes) < 2 {
		return
	}
	order := make(map[*html.Node]int)
	root := nodes[0]
	for root.Parent != nil {
		root = root.Parent
	}
	i := 0
	walk(root, func(n *html.Node) bool {
		order[n] = i
		i++
		return true
	})
	slices.SortFunc(nodes, func(a, b *html.Node) int {
		return order[a] - order[b]
	})
}

func titleBox(n *html.Node) BoundingBox {
	if b := ParseBoundingBoxFromTitle(attr(n, "title")); b != nil {
		return *b
	}
	return BoundingBox{}
}

// textContent gets all text from a node and its children
func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return strings.TrimSpace(b.String())
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// attr returns the value of a specific attribute of a node
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
