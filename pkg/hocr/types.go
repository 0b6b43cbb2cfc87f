package hocr

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title    string            // Document title
	System   string            // ocr-system meta value
	Language string            // Document language
	Metadata map[string]string // Other ocr-* meta values
	Pages    []Page            // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string      // Unique identifier
	PageNumber int         // ppageno property
	ImageName  string      // Source image filename
	Resolution int         // Horizontal scan_res, 0 when absent
	Lang       string      // Language code for this page
	BBox       BoundingBox // Page coordinates
	Areas      []Area      // Content areas (columns)
	Paragraphs []Paragraph // Paragraphs directly under page
	Lines      []Line      // Lines directly under page (no parent)
}

// Area represents a content area (column or region)
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string
	Lang       string
	BBox       BoundingBox
	Paragraphs []Paragraph // Paragraphs in this area
	Lines      []Line      // Text lines directly under area
}

// Paragraph represents a paragraph within an area
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID    string
	Lang  string
	BBox  BoundingBox
	Lines []Line // Text lines in this paragraph
	Words []Word // Words directly under paragraph (no line parent)
}

// Line represents a line of text
// Corresponds to hOCR elements with class: 'ocr_line', 'ocr_header',
// 'ocr_caption' or 'ocr_textfloat'
type Line struct {
	ID       string
	Lang     string
	BBox     BoundingBox
	Baseline string // Baseline information
	Words    []Word
}

// Word is a recognized word with bounding box and font information
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string
	Text       string      // The actual text content
	BBox       BoundingBox // Word coordinates
	Confidence float64     // x_wconf, 0-100
	Lang       string      // Language code
	Font       string      // x_font family name
	FontSize   string      // x_fsize as written
	Bold       bool        // Word wrapped in <strong> or <b>
	Italic     bool        // Word wrapped in <em> or <i>
	Chars      []Char      // ocrx_cinfo character spans, empty when absent
}

// Char is a single recognized character
// Corresponds to hOCR element with class: 'ocrx_cinfo'
type Char struct {
	Text       string
	BBox       BoundingBox // x_bboxes
	Confidence float64     // x_conf
}

// BoundingBox represents a rectangle in the document
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from the top-left (x1, y1) and
// bottom-right (x2, y2) corners.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,
	}
}
