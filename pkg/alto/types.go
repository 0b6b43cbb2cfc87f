package alto

// Alto represents one complete ALTO output document
type Alto struct {
	Description Description // Header and processing metadata
	Styles      []TextStyle // Shared style table referenced by String STYLEREFS
	Layout      Layout      // Page geometry and text
}

// Description holds the static header fields
type Description struct {
	MeasurementUnit string        // Coordinate unit, "pixel"
	FileName        string        // Source file recorded under sourceImageInformation
	Processing      OCRProcessing // OCR processing step
}

// OCRProcessing describes how the text was produced
type OCRProcessing struct {
	ID   string
	Step ProcessingStep
}

// ProcessingStep carries the processing date and settings text
type ProcessingStep struct {
	DateTime string   // processingDateTime, YYYY-MM-DD
	Settings string   // processingStepSettings, e.g. the average confidence
	Software Software // processingSoftware
}

// Software identifies the converter that produced the document
type Software struct {
	Creator string
	Name    string
	Version string
}

// TextStyle is a shared formatting record
// Corresponds to ALTO element: 'TextStyle'
type TextStyle struct {
	ID        string
	FontSize  string // FONTSIZE, normalized size text
	FontStyle string // FONTSTYLE, space separated "bold italics smallcaps"
	FontType  string // FONTTYPE, "serif" or "sans-serif"
	FontWidth string // FONTWIDTH, always "proportional"
}

// Layout holds the pages of the document
type Layout struct {
	Pages []Page
}

// Page is one page of the layout
// Corresponds to ALTO element: 'Page'
type Page struct {
	ID              string
	Width           int
	Height          int
	PhysicalImageNr int
	PrintSpace      PrintSpace
}

// PrintSpace is the area of the page that holds text blocks
// Corresponds to ALTO element: 'PrintSpace'
type PrintSpace struct {
	ID         string
	Box        Box
	Empty      bool // No text blocks, geometry is omitted
	TextBlocks []TextBlock
}

// TextBlock is a block of text lines
// Corresponds to ALTO element: 'TextBlock'
type TextBlock struct {
	ID    string
	Box   Box
	Empty bool // No text lines were produced for the block
	Lines []TextLine
}

// TextLine is a single line of strings
// Corresponds to ALTO element: 'TextLine'
type TextLine struct {
	ID      string
	Box     Box
	Strings []String
}

// String is a recognized word, always followed by its SP
// Corresponds to ALTO element: 'String'
type String struct {
	ID        string
	Content   string
	StyleRefs string
	Box       Box
	Space     SP
}

// SP is the space that follows a String
// Corresponds to ALTO element: 'SP'
type SP struct {
	ID  string
	Box Box
}

// Box is the ALTO position and size of an element
type Box struct {
	HPos   int
	VPos   int
	Width  int
	Height int
}

// NewBox creates an ALTO box from left, top, right and bottom edges.
func NewBox(l, t, r, b int) Box {
	return Box{
		HPos:   l,
		VPos:   t,
		Width:  r - l,
		Height: b - t,
	}
}

// Right returns the right edge of the box.
func (b Box) Right() int { return b.HPos + b.Width }

// Bottom returns the bottom edge of the box.
func (b Box) Bottom() int { return b.VPos + b.Height }

// StyleByID looks up a text style by its id.
func (a *Alto) StyleByID(id string) (TextStyle, bool) {
	for _, s := range a.Styles {
		if s.ID == id {
			return s, true
		}
	}
	return TextStyle{}, false
}
