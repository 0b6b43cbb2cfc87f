package alto

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Alto {
	return &Alto{
		Description: Description{
			MeasurementUnit: "pixel",
			FileName:        "scan & co.xml",
			Processing: OCRProcessing{
				ID: "OCR_1",
				Step: ProcessingStep{
					DateTime: "2010-05-04",
					Settings: "OCR Average Character Confidence 87.6%",
					Software: Software{Name: "altoconv", Version: "dev"},
				},
			},
		},
		Styles: []TextStyle{
			{ID: "TS_12.0a", FontSize: "12.0", FontType: "sans-serif", FontWidth: "proportional"},
			{ID: "TS_10.50b", FontSize: "10.50", FontStyle: "bold", FontType: "serif", FontWidth: "proportional"},
		},
		Layout: Layout{Pages: []Page{
			{
				ID: "Page_1", Width: 2000, Height: 3000, PhysicalImageNr: 1,
				PrintSpace: PrintSpace{
					ID:  "PrintSpace_1",
					Box: NewBox(100, 200, 900, 400),
					TextBlocks: []TextBlock{
						{
							ID:  "scan_TextBlock_1",
							Box: NewBox(100, 200, 900, 300),
							Lines: []TextLine{{
								ID:  "scan_TextLine_1_1",
								Box: NewBox(100, 200, 300, 240),
								Strings: []String{
									{ID: "scan_String_1_1_1", Content: `"Hi"`, StyleRefs: "TS_12.0a", Box: NewBox(100, 200, 150, 240),
										Space: SP{ID: "scan_SP_1_1_1", Box: NewBox(150, 200, 170, 240)}},
									{ID: "scan_String_1_1_2", Content: "<there>", StyleRefs: "TS_10.50b", Box: NewBox(170, 200, 300, 240),
										Space: SP{ID: "scan_SP_1_1_2", Box: NewBox(300, 200, 300, 240)}},
								},
							}},
						},
						{ID: "scan_TextBlock_2", Box: NewBox(100, 350, 900, 400), Empty: true},
					},
				},
			},
			{
				ID: "Page_2", Width: 2000, Height: 3000, PhysicalImageNr: 2,
				PrintSpace: PrintSpace{ID: "PrintSpace_2", Empty: true},
			},
		}},
	}
}

func TestGenerateALTODocument(t *testing.T) {
	out, err := GenerateALTODocument(sampleDocument())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `xmlns="`+Namespace+`"`)
	assert.Contains(t, out, `<fileName>scan &amp; co.xml</fileName>`)
	assert.Contains(t, out, `<processingDateTime>2010-05-04</processingDateTime>`)
	assert.Contains(t, out, `<processingStepSettings>OCR Average Character Confidence 87.6%</processingStepSettings>`)
	assert.Contains(t, out, `<TextStyle ID="TS_12.0a" FONTSIZE="12.0" FONTTYPE="sans-serif" FONTWIDTH="proportional"/>`)
	assert.Contains(t, out, `<TextStyle ID="TS_10.50b" FONTSIZE="10.50" FONTSTYLE="bold" FONTTYPE="serif" FONTWIDTH="proportional"/>`)
	assert.Contains(t, out, `<PrintSpace ID="PrintSpace_1" HPOS="100" VPOS="200" WIDTH="800" HEIGHT="200">`)
	assert.Contains(t, out, `CONTENT="&#34;Hi&#34;"`)
	assert.Contains(t, out, `CONTENT="&lt;there&gt;"`)
	assert.Contains(t, out, `<SP ID="scan_SP_1_1_1" HPOS="150" VPOS="200" WIDTH="20" HEIGHT="40"/>`)
	assert.Contains(t, out, `<TextBlock ID="scan_TextBlock_2" HPOS="100" VPOS="350" WIDTH="800" HEIGHT="50"/>`)
	assert.Contains(t, out, `<PrintSpace ID="PrintSpace_2"/>`)

	// String/SP pairs keep their order
	first := strings.Index(out, `ID="scan_String_1_1_1"`)
	sp := strings.Index(out, `ID="scan_SP_1_1_1"`)
	second := strings.Index(out, `ID="scan_String_1_1_2"`)
	assert.True(t, first < sp && sp < second)
}

func TestGenerateALTODocumentNil(t *testing.T) {
	_, err := GenerateALTODocument(nil)
	assert.Error(t, err)
}

func TestParseALTOReadsGeneratedDocument(t *testing.T) {
	doc := sampleDocument()
	out, err := GenerateALTODocument(doc)
	require.NoError(t, err)

	parsed, err := ParseALTO([]byte(out))
	require.NoError(t, err)

	assert.Equal(t, doc.Description, parsed.Description)
	assert.Equal(t, doc.Styles, parsed.Styles)
	require.Len(t, parsed.Layout.Pages, 2)
	assert.Equal(t, doc.Layout.Pages[0], parsed.Layout.Pages[0])
	assert.True(t, parsed.Layout.Pages[1].PrintSpace.Empty)
	assert.Empty(t, parsed.Layout.Pages[1].PrintSpace.TextBlocks)
}

func TestParseALTONoPages(t *testing.T) {
	_, err := ParseALTO([]byte(`<alto xmlns="` + Namespace + `"><Layout/></alto>`))
	assert.Error(t, err)
}

func TestParseALTOFractionalCoordinates(t *testing.T) {
	data := `<alto><Layout><Page ID="P1" WIDTH="100.4" HEIGHT="200.6"><PrintSpace ID="PS" HPOS="1" VPOS="2" WIDTH="3" HEIGHT="4"/></Page></Layout></alto>`
	parsed, err := ParseALTO([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 100, parsed.Layout.Pages[0].Width)
	assert.Equal(t, 201, parsed.Layout.Pages[0].Height)
	assert.False(t, parsed.Layout.Pages[0].PrintSpace.Empty)
}

func TestExtractALTOText(t *testing.T) {
	text := ExtractALTOText(sampleDocument())
	assert.Equal(t, "\"Hi\" <there>\n\n\n\n\n", text)
}

func TestCountStrings(t *testing.T) {
	assert.Equal(t, 2, CountStrings(sampleDocument()))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xml")

	require.NoError(t, WriteFile(path, sampleDocument()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<Page ID="Page_1"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestStyleByID(t *testing.T) {
	doc := sampleDocument()
	style, ok := doc.StyleByID("TS_10.50b")
	require.True(t, ok)
	assert.Equal(t, "serif", style.FontType)

	_, ok = doc.StyleByID("missing")
	assert.False(t, ok)
}
