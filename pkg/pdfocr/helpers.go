package pdfocr

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/unicode"
)

// normalizeCoords rescales ALTO pixel coords to the PDF coords.
func normalizeCoords(x, y, altoW, altoH, pdfW, pdfH float64) (float64, float64) {
	nx := (x / altoW) * pdfW
	ny := (y / altoH) * pdfH
	return nx, ny
}

func unescapePDFString(s string) string {
	s = strings.ReplaceAll(s, "\\(", "(")
	s = strings.ReplaceAll(s, "\\)", ")")
	s = strings.ReplaceAll(s, "\\\\", "\\")
	return s
}

// decodeUTF16BE decodes a PDF text string that starts with the UTF-16BE
// byte order mark
func decodeUTF16BE(b []byte) (string, error) {
	if len(b) < 2 || b[0] != 0xFE || b[1] != 0xFF {
		return "", fmt.Errorf("no BOM detected, cannot confirm UTF-16BE")
	}
	dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return "", fmt.Errorf("invalid UTF-16BE: %w", err)
	}
	return string(out), nil
}

// dumpPDFStructure logs the first N bytes of the PDF plus the context of
// the first /OCG reference at debug level.
func dumpPDFStructure(pdfData []byte, byteCount int, log logrus.FieldLogger) {
	byteCount = min(byteCount, len(pdfData))
	log.WithField("bytes", byteCount).Debugf("PDF structure:\n%s", pdfData[:byteCount])

	if ocgIndex := bytes.Index(pdfData, []byte("/OCG")); ocgIndex >= 0 {
		start := max(ocgIndex-20, 0)
		end := min(ocgIndex+100, len(pdfData))
		log.WithField("offset", ocgIndex).Debugf("OCG context:\n%s", pdfData[start:end])
	}
}
