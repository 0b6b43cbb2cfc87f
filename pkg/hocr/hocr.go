// Package hocr reads hOCR, the HTML-based OCR format written by Tesseract
// and others, and maps it onto the neutral source tree.
//
// The package implements the hierarchy defined by hOCR:
// Document → Pages → Areas → Paragraphs → Lines → Words → Characters.
// Character spans (ocrx_cinfo) are optional; without them a whole word is
// treated as a single character carrying the word box and confidence.
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: Represents a single page with class 'ocr_page'
// - Area: Represents a content area with class 'ocr_carea'
// - Paragraph: Represents a paragraph with class 'ocr_par'
// - Line: Represents a line of text with class 'ocr_line'
// - Word: Represents a single word with class 'ocrx_word'
// - Char: Represents a character span with class 'ocrx_cinfo'
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR data from HTML into the object model
// - ToSource: Maps the object model onto a source document
// - ParseFile: Reads an hOCR file straight into a source document
package hocr
