// Package pdfocr adds invisible, searchable text layers built from ALTO
// documents to PDF files.
//
// A PDF is either assembled from page images or an existing PDF is
// imported page by page. Each ALTO String is drawn at its HPOS/VPOS
// position and scaled to its WIDTH on a per page optional content layer,
// so readers can toggle the OCR text on and off.
//
// Main Functions:
//
// - ApplyOCR: Adds OCR text layers to an existing PDF
// - AssembleWithOCR: Creates a new PDF from images with OCR text layers
// - CheckExistingOCRLayers: Reports layers that would be duplicated
package pdfocr

import (
	"errors"
	"fmt"

	"github.com/gardar/altoconv/pkg/alto"
)

// ErrOCRLayerExists is returned when a PDF already carries an OCR layer
// and the config does not force reapplying it.
var ErrOCRLayerExists = errors.New("file already has an OCR layer")

// resolveALTO accepts raw ALTO XML ([]byte) or a parsed document (*alto.Alto)
func resolveALTO(input any) (*alto.Alto, error) {
	switch a := input.(type) {
	case []byte:
		doc, err := alto.ParseALTO(a)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ALTO data: %w", err)
		}
		return doc, nil
	case *alto.Alto:
		if a == nil {
			return nil, fmt.Errorf("ALTO document is nil")
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unsupported ALTO input type: %T", input)
	}
}

// AssembleWithOCR creates a PDF from page images and overlays the ALTO text.
// Images may be PNG, JPEG, GIF or TIFF; TIFF pages are transcoded to PNG.
func AssembleWithOCR(
	altoInput any,
	imagesData [][]byte,
	config OCRConfig,
) ([]byte, error) {
	doc, err := resolveALTO(altoInput)
	if err != nil {
		return nil, err
	}
	log := config.logger()

	if len(doc.Layout.Pages) == 0 {
		return nil, fmt.Errorf("ALTO data contains no pages")
	}
	if len(imagesData) == 0 {
		return nil, fmt.Errorf("no image data provided")
	}
	if config.StartPage < 1 {
		return nil, fmt.Errorf("start page must be at least 1, got %d", config.StartPage)
	}
	if len(imagesData) < len(doc.Layout.Pages) {
		return nil, fmt.Errorf("not enough images (%d) for ALTO pages (%d)",
			len(imagesData), len(doc.Layout.Pages))
	}

	images := make([]pageImage, len(imagesData))
	for i, data := range imagesData {
		if len(data) == 0 {
			return nil, fmt.Errorf("image %d is empty", i+1)
		}
		img, err := preparePageImage(data)
		if err != nil {
			return nil, fmt.Errorf("image %d has invalid format: %w", i+1, err)
		}
		log.WithField("image", i+1).WithField("type", img.format).Debug("Page image detected")
		images[i] = img
	}

	finalPDF, err := createPDFFromImages(doc, images, config)
	if err != nil {
		return nil, fmt.Errorf("error creating PDF from images: %w", err)
	}
	return finalPDF, nil
}

// ApplyOCR takes an existing PDF and overlays the ALTO text on its pages,
// starting at config.StartPage. A PDF that already has an OCR layer is
// refused with ErrOCRLayerExists unless config.Force is set.
func ApplyOCR(
	inputPDFData []byte,
	altoInput any,
	config OCRConfig,
) ([]byte, error) {
	doc, err := resolveALTO(altoInput)
	if err != nil {
		return nil, err
	}
	log := config.logger()

	if len(inputPDFData) == 0 {
		return nil, fmt.Errorf("input PDF data is empty")
	}
	if len(doc.Layout.Pages) == 0 {
		return nil, fmt.Errorf("ALTO data contains no pages")
	}
	if config.StartPage < 1 {
		return nil, fmt.Errorf("start page must be at least 1, got %d", config.StartPage)
	}

	if config.DumpPDF {
		dumpPDFStructure(inputPDFData, 2000, log)
	}

	layerResult, err := CheckExistingOCRLayers(inputPDFData, config.LayerName)
	if err != nil {
		return nil, fmt.Errorf("layer detection failed: %w", err)
	}
	for i, layer := range layerResult.Layers {
		log.WithField("index", i+1).Debugf("Existing PDF layer %q", layer)
	}
	for _, warning := range layerResult.Warnings {
		log.Warn(warning)
	}

	if layerResult.HasOCRLayer {
		if !config.Force {
			return nil, fmt.Errorf("%w (layer %q), force is required to reapply",
				ErrOCRLayerExists, layerResult.OCRLayerName)
		}
		log.WithField("layer", layerResult.OCRLayerName).
			Warn("File already has OCR, reapplying will duplicate the text layer")
	}

	finalPDF, err := modifyExistingPDF(inputPDFData, doc, config)
	if err != nil {
		return nil, fmt.Errorf("error modifying existing PDF: %w", err)
	}
	return finalPDF, nil
}
