package convert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/altoconv/pkg/alto"
	"github.com/gardar/altoconv/pkg/source"
)

// word builds the characters of a word starting at x on the band 100-130
func word(text string, x int, conf float64) []source.Char {
	var out []source.Char
	for _, r := range text {
		out = append(out, source.Char{
			Box:        source.NewBox(x, 100, x+10, 130),
			Text:       string(r),
			Confidence: conf,
		})
		x += 10
	}
	return out
}

func space(x int) source.Char {
	return source.Char{Box: source.NewBox(x, 100, x+5, 130), Text: " "}
}

func textBlock(box source.Box, runs ...source.FormattingRun) source.Block {
	return source.Block{
		Type: source.TypeText,
		Box:  box,
		Paragraphs: []source.Paragraph{{
			Lines: []source.Line{{Runs: runs}},
		}},
	}
}

func sampleDoc() *source.Document {
	run := source.FormattingRun{FontFamily: "Times New Roman", FontSize: "12"}
	run.Chars = append(run.Chars, word("Hi", 10, 90)...)
	run.Chars = append(run.Chars, space(30))
	run.Chars = append(run.Chars, word("you", 40, 80)...)

	bold := source.FormattingRun{FontFamily: "Arial", FontSize: "9", Bold: true}
	bold.Chars = word("Z", 10, 100)

	return &source.Document{
		Name:     "scan",
		FileName: "/data/in/scan.xml",
		Modified: time.Date(2021, 3, 4, 10, 0, 0, 0, time.UTC),
		Variant:  "v8",
		Pages: []source.Page{
			{
				Index: 1, Width: 1000, Height: 2000, Resolution: 300,
				Blocks: []source.Block{
					textBlock(source.NewBox(5, 90, 200, 140), run),
					{Type: "Picture", Box: source.NewBox(0, 0, 999, 1999)},
				},
			},
			{
				Index: 2, Width: 1000, Height: 2000, Resolution: 300,
				Blocks: []source.Block{
					textBlock(source.NewBox(8, 95, 30, 135), bold),
				},
			},
		},
	}
}

func TestConvertPerPage(t *testing.T) {
	conv := New(Options{Creator: "tests", Version: "1.0"})
	units, err := conv.Convert(context.Background(), sampleDoc())
	require.NoError(t, err)
	require.Len(t, units, 2)

	first := units[0]
	assert.Equal(t, "scan_0001", first.Name)
	assert.Equal(t, []int{1}, first.Pages)
	assert.Equal(t, 84.0, first.Confidence)
	assert.Equal(t, 1, first.Stats.TextBlocks)
	assert.Equal(t, 1, first.Stats.TextLines)
	assert.Equal(t, 2, first.Stats.Strings)
	assert.Equal(t, 1, first.Stats.Styles)
	assert.Equal(t, 5, first.Stats.Characters)
	assert.Equal(t, 1, first.Stats.SkippedBlocks)

	desc := first.ALTO.Description
	assert.Equal(t, "pixel", desc.MeasurementUnit)
	assert.Equal(t, "scan.xml", desc.FileName)
	assert.Equal(t, "2021-03-04", desc.Processing.Step.DateTime)
	assert.Equal(t, "OCR Average Character Confidence 84%", desc.Processing.Step.Settings)
	assert.Equal(t, "tests", desc.Processing.Step.Software.Creator)

	page := first.ALTO.Layout.Pages[0]
	assert.Equal(t, "Page_1", page.ID)
	assert.Equal(t, 1000, page.Width)
	assert.Equal(t, 1, page.PhysicalImageNr)

	ps := page.PrintSpace
	assert.Equal(t, "PrintSpace_1", ps.ID)
	assert.False(t, ps.Empty)
	// only the text block contributes, the picture is excluded
	assert.Equal(t, alto.NewBox(5, 90, 200, 140), ps.Box)
	require.Len(t, ps.TextBlocks, 1)

	tb := ps.TextBlocks[0]
	assert.Equal(t, "scan_0001_TextBlock_1", tb.ID)
	assert.Equal(t, alto.NewBox(5, 90, 200, 140), tb.Box)
	require.Len(t, tb.Lines, 1)

	line := tb.Lines[0]
	assert.Equal(t, "scan_0001_TextLine_1_1", line.ID)
	assert.Equal(t, alto.NewBox(10, 100, 70, 130), line.Box)
	require.Len(t, line.Strings, 2)

	hi, you := line.Strings[0], line.Strings[1]
	assert.Equal(t, "Hi", hi.Content)
	assert.Equal(t, "scan_0001_String_1_1_1", hi.ID)
	assert.Equal(t, "TS_12.0", hi.StyleRefs)
	assert.Equal(t, alto.NewBox(10, 100, 30, 130), hi.Box)
	assert.Equal(t, "scan_0001_SP_1_1_1", hi.Space.ID)
	assert.Equal(t, alto.NewBox(30, 100, 40, 130), hi.Space.Box)

	assert.Equal(t, "you", you.Content)
	assert.Equal(t, "scan_0001_String_1_1_2", you.ID)
	assert.Equal(t, alto.NewBox(40, 100, 70, 130), you.Box)
	assert.Equal(t, 0, you.Space.Box.Width)

	require.Len(t, first.ALTO.Styles, 1)
	assert.Equal(t, "serif", first.ALTO.Styles[0].FontType)

	second := units[1]
	assert.Equal(t, "scan_0002", second.Name)
	assert.Equal(t, 100.0, second.Confidence)
	require.Len(t, second.ALTO.Styles, 1)
	assert.Equal(t, "TS_9.0ba", second.ALTO.Styles[0].ID)
	// counters restart for every unit
	assert.Equal(t, "scan_0002_TextBlock_1", second.ALTO.Layout.Pages[0].PrintSpace.TextBlocks[0].ID)
}

func TestConvertDocumentMode(t *testing.T) {
	conv := New(Options{Mode: ModeDocument})
	units, err := conv.Convert(context.Background(), sampleDoc())
	require.NoError(t, err)
	require.Len(t, units, 1)

	unit := units[0]
	assert.Equal(t, "scan", unit.Name)
	assert.Equal(t, []int{1, 2}, unit.Pages)
	require.Len(t, unit.ALTO.Layout.Pages, 2)
	assert.Equal(t, 2, unit.Stats.Styles)
	assert.Equal(t, 6, unit.Stats.Characters)
	// (90*2 + 80*3 + 100) / 6
	assert.Equal(t, 86.67, unit.Confidence)

	second := unit.ALTO.Layout.Pages[1].PrintSpace.TextBlocks[0]
	assert.Equal(t, "scan_TextBlock_2", second.ID)
	assert.Equal(t, "scan_TextLine_2_2", second.Lines[0].ID)
	assert.Equal(t, "scan_String_2_2_3", second.Lines[0].Strings[0].ID)

	assert.True(t, strings.HasPrefix(unit.XML, "<?xml"))
	assert.Contains(t, unit.XML, `ID="scan_String_2_2_3"`)
}

func TestConvertParallelMatchesSequential(t *testing.T) {
	doc := sampleDoc()

	seq, err := New(Options{Workers: 1}).Convert(context.Background(), doc)
	require.NoError(t, err)
	par, err := New(Options{Workers: 4}).Convert(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, par, len(seq))
	for i := range seq {
		assert.Equal(t, seq[i].XML, par[i].XML)
	}
}

func TestConvertEmptyPrintSpace(t *testing.T) {
	doc := &source.Document{
		Name: "blank",
		Pages: []source.Page{{
			Index: 1, Width: 100, Height: 100,
			Blocks: []source.Block{{Type: "Table", Box: source.NewBox(0, 0, 50, 50)}},
		}},
	}
	units, err := New(Options{}).Convert(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, units, 1)

	ps := units[0].ALTO.Layout.Pages[0].PrintSpace
	assert.True(t, ps.Empty)
	assert.Empty(t, ps.TextBlocks)
	assert.Empty(t, units[0].ALTO.Styles)
	assert.Equal(t, 0.0, units[0].Confidence)
	assert.Contains(t, units[0].XML, `<PrintSpace ID="PrintSpace_1"/>`)
}

func TestConvertConfigurableBlockTypes(t *testing.T) {
	run := source.FormattingRun{FontSize: "10", Chars: word("ok", 0, 50)}
	doc := &source.Document{
		Name: "t",
		Pages: []source.Page{{
			Index: 1,
			Blocks: []source.Block{{
				Type:       "Table",
				Box:        source.NewBox(0, 90, 40, 140),
				Paragraphs: []source.Paragraph{{Lines: []source.Line{{Runs: []source.FormattingRun{run}}}}},
			}},
		}},
	}

	units, err := New(Options{TextBlockTypes: []string{"Text", "Table"}}).Convert(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, units[0].ALTO.Layout.Pages[0].PrintSpace.TextBlocks, 1)
}

func TestConvertEmptyTextBlock(t *testing.T) {
	blank := source.FormattingRun{Chars: []source.Char{space(0), space(5)}}
	doc := &source.Document{
		Name: "t",
		Pages: []source.Page{{
			Index:  1,
			Blocks: []source.Block{textBlock(source.NewBox(0, 0, 10, 10), blank)},
		}},
	}

	units, err := New(Options{}).Convert(context.Background(), doc)
	require.NoError(t, err)

	tb := units[0].ALTO.Layout.Pages[0].PrintSpace.TextBlocks[0]
	assert.True(t, tb.Empty)
	assert.Empty(t, tb.Lines)
	assert.Equal(t, 1, units[0].Stats.SkippedLines)
	assert.Equal(t, 0, units[0].Stats.TextLines)
	assert.Empty(t, units[0].ALTO.Styles, "runs without words create no style")
}

func TestConvertMalformedReportsLocation(t *testing.T) {
	bad := source.FormattingRun{Chars: []source.Char{{Box: source.NewBox(50, 0, 10, 10), Text: "x"}}}
	doc := &source.Document{
		Name: "broken",
		Pages: []source.Page{{
			Index:  3,
			Blocks: []source.Block{textBlock(source.NewBox(0, 0, 100, 100), bad)},
		}},
	}

	units, err := New(Options{}).Convert(context.Background(), doc)
	require.Error(t, err)
	assert.Nil(t, units)
	assert.ErrorIs(t, err, ErrMalformedCharacterStream)

	var unitErr *UnitError
	require.True(t, errors.As(err, &unitErr))
	assert.Equal(t, "broken_0003", unitErr.Unit)
	assert.Equal(t, 3, unitErr.Page)
	assert.Equal(t, 1, unitErr.Block)
	assert.Equal(t, 1, unitErr.Line)
	assert.Equal(t, StagePrintSpaceComputed, unitErr.Stage)
	assert.Contains(t, err.Error(), "page 3, block 1, line 1")
}

func TestConvertInvalidBlockGeometry(t *testing.T) {
	doc := &source.Document{
		Name: "t",
		Pages: []source.Page{{
			Index:  1,
			Blocks: []source.Block{{Type: source.TypeText, Box: source.NewBox(10, 10, 0, 0)}},
		}},
	}
	_, err := New(Options{}).Convert(context.Background(), doc)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestConvertRejectsBadInput(t *testing.T) {
	_, err := New(Options{}).Convert(context.Background(), nil)
	assert.Error(t, err)

	_, err = New(Options{}).Convert(context.Background(), &source.Document{Name: "x"})
	assert.Error(t, err)

	_, err = New(Options{Mode: "sideways"}).Convert(context.Background(), sampleDoc())
	assert.ErrorContains(t, err, "unknown conversion mode")
}

func TestConvertCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).Convert(ctx, sampleDoc())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFillsDefaults(t *testing.T) {
	opts := New(Options{}).Options()
	assert.Equal(t, ModePerPage, opts.Mode)
	assert.Equal(t, 1, opts.Workers)
	assert.Equal(t, []string{"Text"}, opts.TextBlockTypes)
}

func TestPageUnitName(t *testing.T) {
	assert.Equal(t, "book_0001", PageUnitName("book", 1))
	assert.Equal(t, "book_0123", PageUnitName("book", 123))
}

func TestIDNamespace(t *testing.T) {
	assert.Equal(t, "scan_0001", idNamespace("scan_0001"))
	assert.Equal(t, "_1984_0001", idNamespace("1984_0001"))
	assert.Equal(t, "my_scan", idNamespace("my scan"))
	assert.Equal(t, "_", idNamespace(""))
}

func TestUnitErrorUnwrap(t *testing.T) {
	err := &UnitError{Unit: "u", Stage: StagePageOpened, Err: ErrEmptyGeometry}
	assert.ErrorIs(t, err, ErrEmptyGeometry)
	assert.Equal(t, "unit u: page opened: empty geometry", err.Error())
}
