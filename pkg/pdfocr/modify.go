package pdfocr

import (
	"bytes"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/gardar/altoconv/pkg/alto"
)

// modifyExistingPDF imports pages from an existing PDF and overlays the
// OCR text layer. ALTO page i is drawn on PDF page StartPage+i.
func modifyExistingPDF(inputPDFData []byte, doc *alto.Alto, config OCRConfig) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "", "")
	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(inputPDFData))

	identity := func(x, y float64) (float64, float64) {
		return x, y
	}

	for i, page := range doc.Layout.Pages {
		targetPage := i + config.StartPage
		if page.Width <= 0 || page.Height <= 0 {
			return nil, fmt.Errorf("ALTO page %d has no dimensions", i+1)
		}
		w, h := float64(page.Width), float64(page.Height)

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		tpl := importer.ImportPageFromStream(pdf, &rs, targetPage, "/MediaBox")
		importer.UseImportedTemplate(pdf, tpl, 0, 0, w, 0)

		if err := drawOCRLayer(pdf, doc, page, config.Debug, config.LayerName, i+1, identity, config.Font); err != nil {
			return nil, fmt.Errorf("failed to draw OCR layer for page %d: %w", targetPage, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
