package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments
func textFromLayout(layout *documentaipb.Document_Page_Layout, runes []rune) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	var result strings.Builder
	total := len(runes)

	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			start = end
		}
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}

// span returns the text range covered by the first anchor segment
func span(layout *documentaipb.Document_Page_Layout) (start, end int64, ok bool) {
	if layout == nil || layout.TextAnchor == nil || len(layout.TextAnchor.TextSegments) == 0 {
		return 0, 0, false
	}
	seg := layout.TextAnchor.TextSegments[0]
	return seg.StartIndex, seg.EndIndex, true
}

// contains reports whether the text range of child lies within parent
func contains(parent, child *documentaipb.Document_Page_Layout) bool {
	ps, pe, ok := span(parent)
	if !ok {
		return false
	}
	cs, ce, ok := span(child)
	if !ok {
		return false
	}
	return cs >= ps && ce <= pe
}
