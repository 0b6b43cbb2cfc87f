package pdfocr

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/altoconv/pkg/alto"
)

// drawOCRLayer draws the strings of an ALTO page onto a layer in a pdf page.
// The pageNum parameter is used to create unique layer names for each page.
func drawOCRLayer(
	pdf *fpdf.Fpdf,
	doc *alto.Alto,
	page alto.Page,
	debug bool,
	layerName string,
	pageNum int,
	transform func(x, y float64) (float64, float64),
	fontConfig FontConfig,
) error {
	formattedLayerName := layerName
	if pageNum > 0 {
		formattedLayerName = fmt.Sprintf("%s (Page %d)", layerName, pageNum)
	}

	layer := pdf.AddLayer(formattedLayerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(fontConfig.Name, "", fontConfig.Size)

	if debug {
		pdf.SetTextColor(255, 0, 0) // highlight text in red
	} else {
		pdf.SetAlpha(0.0, "Normal") // hide text from normal view
	}

	encodingErrors := 0
	wordCount := 0

	for _, block := range page.PrintSpace.TextBlocks {
		for _, line := range block.Lines {
			for _, s := range line.Strings {
				textStyle, _ := doc.StyleByID(s.StyleRefs)
				family, style := fontConfig.fontFor(textStyle)
				pdf.SetFont(family, style, fontConfig.Size)
				drawString(pdf, s, transform, fontConfig, debug, &encodingErrors)
				wordCount++
			}
		}
	}

	pdf.EndLayer()

	if wordCount > 0 && encodingErrors > 0 && encodingErrors > wordCount/10 {
		return fmt.Errorf("character encoding issues in %d of %d words",
			encodingErrors, wordCount)
	}

	return nil
}

// drawString renders a single ALTO string onto the PDF layer, scaled to the
// string width
func drawString(pdf *fpdf.Fpdf, s alto.String, transform func(x, y float64) (float64, float64),
	fontConfig FontConfig, debug bool, encodingErrors *int) {

	x, y := transform(float64(s.Box.HPos), float64(s.Box.VPos))
	x2, y2 := transform(float64(s.Box.Right()), float64(s.Box.Bottom()))
	wordWidth := x2 - x

	// fpdf core fonts expect ISO-8859-1
	latin1, err := charmap.ISO8859_1.NewEncoder().String(s.Content)
	if err != nil {
		*encodingErrors++
		latin1 = s.Content
	}

	strWidth := pdf.GetStringWidth(latin1)
	if strWidth > 0 {
		pdf.SetFontSize(fontConfig.Size * wordWidth / strWidth)
	}

	fontSize, _ := pdf.GetFontSize()
	y += fontSize * fontConfig.AscentRatio

	pdf.Text(x, y, latin1)
	pdf.SetFontSize(fontConfig.Size)

	if debug {
		pdf.Rect(x, y-(fontSize*fontConfig.AscentRatio), wordWidth, y2-(y-fontSize*fontConfig.AscentRatio), "D")
	}
}
