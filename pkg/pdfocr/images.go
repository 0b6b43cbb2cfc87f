package pdfocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/tiff"
)

// pageImage is an image ready to be registered with fpdf
type pageImage struct {
	data   []byte
	format string // fpdf image type: PNG, JPG or GIF
	width  int
	height int
}

// preparePageImage detects the image format. fpdf cannot embed TIFF, so
// TIFF pages are decoded and re-encoded as PNG.
func preparePageImage(data []byte) (pageImage, error) {
	format, err := detectImageType(data)
	if err != nil {
		return pageImage{}, err
	}
	if format == "TIFF" {
		if data, err = tiffToPNG(data); err != nil {
			return pageImage{}, err
		}
		format = "PNG"
	}
	if format == "JPEG" {
		format = "JPG"
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return pageImage{}, fmt.Errorf("failed to decode image config: %w", err)
	}
	return pageImage{data: data, format: format, width: cfg.Width, height: cfg.Height}, nil
}

// detectImageType reports the registered image format in upper case
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return strings.ToUpper(format), nil
}

func tiffToPNG(data []byte) ([]byte, error) {
	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode TIFF: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
