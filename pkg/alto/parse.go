package alto

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ParseALTO converts raw ALTO XML into an Alto struct.
// Elements are matched by local name so any ALTO namespace version is accepted.
func ParseALTO(data []byte) (*Alto, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ALTO XML: %w", err)
	}

	result := &Alto{}

	if desc := xmlquery.FindOne(root, "//*[local-name()='Description']"); desc != nil {
		result.Description = parseDescription(desc)
	}

	for _, n := range xmlquery.Find(root, "//*[local-name()='Styles']/*[local-name()='TextStyle']") {
		result.Styles = append(result.Styles, TextStyle{
			ID:        n.SelectAttr("ID"),
			FontSize:  n.SelectAttr("FONTSIZE"),
			FontStyle: n.SelectAttr("FONTSTYLE"),
			FontType:  n.SelectAttr("FONTTYPE"),
			FontWidth: n.SelectAttr("FONTWIDTH"),
		})
	}

	pages := xmlquery.Find(root, "//*[local-name()='Layout']/*[local-name()='Page']")
	if len(pages) == 0 {
		return nil, fmt.Errorf("no Page elements found in ALTO data")
	}
	for _, n := range pages {
		result.Layout.Pages = append(result.Layout.Pages, parsePage(n))
	}

	return result, nil
}

// parseDescription extracts the header fields
func parseDescription(n *xmlquery.Node) Description {
	var desc Description
	if unit := firstChild(n, "MeasurementUnit"); unit != nil {
		desc.MeasurementUnit = strings.TrimSpace(unit.InnerText())
	}
	if info := firstChild(n, "sourceImageInformation"); info != nil {
		if name := firstChild(info, "fileName"); name != nil {
			desc.FileName = strings.TrimSpace(name.InnerText())
		}
	}
	if proc := firstChild(n, "OCRProcessing"); proc != nil {
		desc.Processing.ID = proc.SelectAttr("ID")
		if step := firstChild(proc, "ocrProcessingStep"); step != nil {
			if dt := firstChild(step, "processingDateTime"); dt != nil {
				desc.Processing.Step.DateTime = strings.TrimSpace(dt.InnerText())
			}
			if settings := firstChild(step, "processingStepSettings"); settings != nil {
				desc.Processing.Step.Settings = strings.TrimSpace(settings.InnerText())
			}
			if sw := firstChild(step, "processingSoftware"); sw != nil {
				desc.Processing.Step.Software = Software{
					Creator: childText(sw, "softwareCreator"),
					Name:    childText(sw, "softwareName"),
					Version: childText(sw, "softwareVersion"),
				}
			}
		}
	}
	return desc
}

// parsePage extracts a page with its print space
func parsePage(n *xmlquery.Node) Page {
	page := Page{
		ID:              n.SelectAttr("ID"),
		Width:           attrInt(n, "WIDTH"),
		Height:          attrInt(n, "HEIGHT"),
		PhysicalImageNr: attrInt(n, "PHYSICAL_IMAGE_NR"),
	}

	ps := firstChild(n, "PrintSpace")
	if ps == nil {
		page.PrintSpace.Empty = true
		return page
	}

	page.PrintSpace.ID = ps.SelectAttr("ID")
	page.PrintSpace.Box = parseBox(ps)
	page.PrintSpace.Empty = ps.SelectAttr("HPOS") == "" && ps.SelectAttr("WIDTH") == ""

	for _, tb := range childElements(ps, "TextBlock") {
		block := TextBlock{
			ID:  tb.SelectAttr("ID"),
			Box: parseBox(tb),
		}
		for _, tl := range childElements(tb, "TextLine") {
			block.Lines = append(block.Lines, parseLine(tl))
		}
		block.Empty = len(block.Lines) == 0
		page.PrintSpace.TextBlocks = append(page.PrintSpace.TextBlocks, block)
	}

	return page
}

// parseLine extracts a line, pairing each String with the SP that follows it
func parseLine(n *xmlquery.Node) TextLine {
	line := TextLine{
		ID:  n.SelectAttr("ID"),
		Box: parseBox(n),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "String":
			line.Strings = append(line.Strings, String{
				ID:        c.SelectAttr("ID"),
				Content:   c.SelectAttr("CONTENT"),
				StyleRefs: c.SelectAttr("STYLEREFS"),
				Box:       parseBox(c),
			})
		case "SP":
			if len(line.Strings) > 0 {
				last := &line.Strings[len(line.Strings)-1]
				last.Space = SP{ID: c.SelectAttr("ID"), Box: parseBox(c)}
			}
		}
	}
	return line
}

// parseBox reads the four geometry attributes of an element
func parseBox(n *xmlquery.Node) Box {
	return Box{
		HPos:   attrInt(n, "HPOS"),
		VPos:   attrInt(n, "VPOS"),
		Width:  attrInt(n, "WIDTH"),
		Height: attrInt(n, "HEIGHT"),
	}
}

// attrInt parses an integer attribute, rounding fractional values
func attrInt(n *xmlquery.Node, name string) int {
	v := strings.TrimSpace(n.SelectAttr(name))
	if v == "" {
		return 0
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}

// childElements returns the direct element children with the given local name
func childElements(n *xmlquery.Node, local string) []*xmlquery.Node {
	var result []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			result = append(result, c)
		}
	}
	return result
}

func firstChild(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

func childText(n *xmlquery.Node, local string) string {
	if c := firstChild(n, local); c != nil {
		return strings.TrimSpace(c.InnerText())
	}
	return ""
}
