package alto

import (
	"strings"
)

// ExtractALTOText extracts all text from an ALTO document.
// Strings of a line are joined by single spaces, blocks are separated by a
// blank line and pages by a double newline.
func ExtractALTOText(doc *Alto) string {
	var builder strings.Builder

	for _, page := range doc.Layout.Pages {
		for i, block := range page.PrintSpace.TextBlocks {
			if block.Empty {
				continue
			}
			if i > 0 {
				builder.WriteString("\n")
			}
			extractBlockText(&builder, block)
		}

		// Add a page break
		builder.WriteString("\n\n")
	}

	return builder.String()
}

// extractBlockText writes every line of a block
func extractBlockText(builder *strings.Builder, block TextBlock) {
	for _, line := range block.Lines {
		builder.WriteString(LineText(line))
		builder.WriteString("\n")
	}
}

// LineText joins the contents of a line's strings with single spaces.
func LineText(line TextLine) string {
	words := make([]string, 0, len(line.Strings))
	for _, s := range line.Strings {
		words = append(words, s.Content)
	}
	return strings.Join(words, " ")
}

// CountStrings returns the number of String nodes in the document.
func CountStrings(doc *Alto) int {
	n := 0
	for _, page := range doc.Layout.Pages {
		for _, block := range page.PrintSpace.TextBlocks {
			for _, line := range block.Lines {
				n += len(line.Strings)
			}
		}
	}
	return n
}
