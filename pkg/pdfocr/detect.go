package pdfocr

import (
	"fmt"
	"regexp"
	"strings"
)

// ocgPatterns match optional content group names in raw PDF bytes
var ocgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/Type\s*/OCG\s*/Name\s*\(([^)]+)\)`),
	regexp.MustCompile(`/Title\s*\(([^)]+)\)`),
	regexp.MustCompile(`/OCG\s*<<[^>]*?/Name\s*\(([^)]+)\)`),
	regexp.MustCompile(`<</Type/OCG/Name\(([^)]+)\)`),
	regexp.MustCompile(`/Name\s*\(([^)]+)\)[\s\S]{1,50}/Type\s*/OCG`),
}

// detectPDFLayers finds layer names in the raw PDF data. Names are
// unescaped, UTF-16 names are decoded and duplicates are dropped.
func detectPDFLayers(pdfData []byte) ([]string, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty PDF data")
	}

	content := string(pdfData)
	var layers []string
	for _, re := range ocgPatterns {
		for _, match := range re.FindAllStringSubmatch(content, -1) {
			name := unescapePDFString(match[1])
			if decoded, err := decodeUTF16BE([]byte(name)); err == nil {
				name = decoded
			}
			layers = append(layers, name)
		}
	}

	unique := make([]string, 0, len(layers))
	seen := make(map[string]bool)
	for _, l := range layers {
		if !seen[l] {
			seen[l] = true
			unique = append(unique, l)
		}
	}
	return unique, nil
}

// LayerCheckResult contains the results of checking for OCR layers
type LayerCheckResult struct {
	Layers       []string // All detected layers
	HasOCRLayer  bool     // True if the OCR layer or one of its page layers exists
	OCRLayerName string   // Name of the detected OCR layer (if any)
	Warnings     []string // Layers that might contain OCR from another tool
}

// CheckExistingOCRLayers checks a PDF for layers named ocrLayerName or
// "ocrLayerName (Page n)". Other layers mentioning OCR produce warnings.
func CheckExistingOCRLayers(pdfData []byte, ocrLayerName string) (LayerCheckResult, error) {
	result := LayerCheckResult{}

	layers, err := detectPDFLayers(pdfData)
	if err != nil {
		return result, fmt.Errorf("cannot analyze layers: %w", err)
	}
	result.Layers = layers

	pageLayerPattern := regexp.MustCompile(fmt.Sprintf(`^%s\s*\(Page\s*\d+.*`, regexp.QuoteMeta(ocrLayerName)))

	for _, layer := range layers {
		if layer == ocrLayerName || pageLayerPattern.MatchString(layer) {
			result.HasOCRLayer = true
			result.OCRLayerName = layer
			break
		}

		if strings.Contains(strings.ToLower(layer), "ocr") &&
			!strings.HasPrefix(layer, ocrLayerName) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Existing layer detected that might contain OCR: %s", layer))
		}
	}

	return result, nil
}

// OCRDetectionResult summarizes OCR detection for a PDF
type OCRDetectionResult struct {
	HasOCR    bool             // True if an OCR layer from this tool was found
	LayerInfo LayerCheckResult // Details from layer detection
	Warnings  []string         // Warnings from layer detection
}

// DetectOCR reports whether a PDF already carries an OCR text layer named
// after config.LayerName and lists layers that might hold other OCR.
func DetectOCR(pdfData []byte, config OCRConfig) (OCRDetectionResult, error) {
	layerResult, err := CheckExistingOCRLayers(pdfData, config.LayerName)
	if err != nil {
		return OCRDetectionResult{}, err
	}
	return OCRDetectionResult{
		HasOCR:    layerResult.HasOCRLayer,
		LayerInfo: layerResult,
		Warnings:  layerResult.Warnings,
	}, nil
}
