package pdfocr

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/altoconv/pkg/alto"
)

// createPDFFromImages builds a new PDF from images with their corresponding
// ALTO pages. Inputs are validated by the caller.
func createPDFFromImages(doc *alto.Alto, images []pageImage, config OCRConfig) ([]byte, error) {
	startIdx := config.StartPage - 1
	pdf := fpdf.New("P", "pt", "A4", "")

	for i := startIdx; i < len(doc.Layout.Pages) && i < len(images); i++ {
		page := doc.Layout.Pages[i]
		w, h := pageSize(page, images[i])

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		imageName := fmt.Sprintf("img%d", i)
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: images[i].format}
		pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(images[i].data))
		pdf.ImageOptions(imageName, 0, 0, w, h, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to place image for page %d: %w", i+1, err)
		}

		transform := func(x, y float64) (float64, float64) {
			return normalizeCoords(x, y, w, h, w, h)
		}

		// page numbers are 1-based in the resulting PDF
		if err := drawOCRLayer(pdf, doc, page, config.Debug, config.LayerName, i+1, transform, config.Font); err != nil {
			return nil, fmt.Errorf("failed to draw OCR layer for page %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// pageSize uses the ALTO page dimensions, falling back to the image pixels
// when the page carries none
func pageSize(page alto.Page, img pageImage) (float64, float64) {
	if page.Width > 0 && page.Height > 0 {
		return float64(page.Width), float64(page.Height)
	}
	return float64(img.width), float64(img.height)
}
