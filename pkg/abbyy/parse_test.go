package abbyy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/altoconv/pkg/source"
)

const fineReader8 = `<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="http://www.abbyy.com/FineReader_xml/FineReader8-schema-v2.xml" version="1.0" producer="FineReader 8.0">
<page width="2000" height="3000" resolution="300" originalCoords="true">
<block blockType="Text" l="100" t="200" r="900" b="260">
<region><rect l="100" t="200" r="900" b="260"/></region>
<text>
<par align="Justified">
<line baseline="250" l="100" t="210" r="400" b="255">
<formatting lang="EnglishUnitedStates" ff="Times New Roman" fs="12." bold="true">
<charParams l="100" t="210" r="120" b="250" charConfidence="95">H</charParams>
<charParams l="121" t="212" r="130" b="250" charConfidence="90">i</charParams>
<charParams l="131" t="212" r="140" b="250" charConfidence="0"> </charParams>
</formatting>
<formatting lang="EnglishUnitedStates" ff="Arial" fs="10" italic="1">
<charParams l="141" t="210" r="160" b="255" charConfidence="85">T</charParams>
</formatting>
</line>
</par>
</text>
</block>
<block blockType="Picture" l="0" t="0" r="50" b="50">
<region><rect l="0" t="0" r="50" b="50"/></region>
</block>
</page>
<page width="2000" height="3000" resolution="300">
<block blockType="Separator" l="10" t="10" r="20" b="2000"/>
</page>
</document>`

const fineReader6 = `<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="http://www.abbyy.com/FineReader_xml/FineReader6-schema-v1.xml">
<page width="1000" height="1500" resolution="200">
<block blockType="Text">
<region><rect l="10" t="20" r="50" b="40"/><rect l="40" t="30" r="90" b="70"/></region>
<text><par><line baseline="60" l="10" t="20" r="90" b="70">
<charParams l="10" t="20" r="20" b="40">o</charParams>
<charParams l="21" t="20" r="30" b="40">k</charParams>
</line></par></text>
</block>
</page>
</document>`

func TestParseFineReader8(t *testing.T) {
	doc, err := Parse([]byte(fineReader8), "sample")
	require.NoError(t, err)

	assert.Equal(t, "sample", doc.Name)
	assert.Equal(t, string(Version8), doc.Variant)
	require.Len(t, doc.Pages, 2)

	page := doc.Pages[0]
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, 2000, page.Width)
	assert.Equal(t, 3000, page.Height)
	assert.Equal(t, 300, page.Resolution)
	require.Len(t, page.Blocks, 2)

	text := page.Blocks[0]
	assert.Equal(t, source.TypeText, text.Type)
	assert.Equal(t, source.NewBox(100, 200, 900, 260), text.Box)
	require.Len(t, text.Paragraphs, 1)
	require.Len(t, text.Paragraphs[0].Lines, 1)

	line := text.Paragraphs[0].Lines[0]
	assert.Equal(t, source.NewBox(100, 210, 400, 255), line.Box)
	require.Len(t, line.Runs, 2)

	first := line.Runs[0]
	assert.Equal(t, "EnglishUnitedStates", first.Language)
	assert.Equal(t, "Times New Roman", first.FontFamily)
	assert.Equal(t, "12.", first.FontSize)
	assert.True(t, first.Bold)
	assert.False(t, first.Italic)
	require.Len(t, first.Chars, 3)
	assert.Equal(t, "H", first.Chars[0].Text)
	assert.Equal(t, 95.0, first.Chars[0].Confidence)
	assert.Equal(t, source.NewBox(100, 210, 120, 250), first.Chars[0].Box)
	assert.True(t, first.Chars[2].IsBoundary())

	second := line.Runs[1]
	assert.True(t, second.Italic)
	assert.Equal(t, "Arial", second.FontFamily)

	assert.Equal(t, "Picture", page.Blocks[1].Type)
	assert.Equal(t, "Separator", doc.Pages[1].Blocks[0].Type)
	assert.Equal(t, 2, doc.Pages[1].Index)
}

func TestParseFineReader6(t *testing.T) {
	doc, err := Parse([]byte(fineReader6), "old")
	require.NoError(t, err)

	assert.Equal(t, string(Version6), doc.Variant)
	require.Len(t, doc.Pages, 1)

	block := doc.Pages[0].Blocks[0]
	// no edges on the block, so the region rectangles are bounded
	assert.Equal(t, source.NewBox(10, 20, 90, 70), block.Box)

	line := block.Paragraphs[0].Lines[0]
	require.Len(t, line.Runs, 1, "a line without formatting is one anonymous run")
	run := line.Runs[0]
	assert.Empty(t, run.FontFamily)
	require.Len(t, run.Chars, 2)
	assert.Equal(t, "o", run.Chars[0].Text)
	assert.Equal(t, 0.0, run.Chars[0].Confidence)
}

func TestParseUndetectedSchema(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"foreign namespace", `<document xmlns="urn:other"><page width="1" height="1"/></document>`},
		{"no namespace", `<document><page width="1" height="1"/></document>`},
		{"no pages", `<document xmlns="http://www.abbyy.com/FineReader_xml/FineReader8-schema-v2.xml"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.xml), "x")
			assert.ErrorIs(t, err, source.ErrSchemaVariantUndetected)
		})
	}
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse([]byte(`<document><page`), "x")
	assert.Error(t, err)
}

func TestParseBadNumber(t *testing.T) {
	xml := strings.Replace(fineReader8, `width="2000" height="3000" resolution="300" originalCoords`, `width="wide" height="3000" resolution="300" originalCoords`, 1)
	_, err := Parse([]byte(xml), "x")
	assert.ErrorContains(t, err, `attribute width="wide" is not a number`)
}

func TestParseWindows1252(t *testing.T) {
	xml := strings.Replace(fineReader6, `encoding="UTF-8"`, `encoding="windows-1252"`, 1)
	xml = strings.Replace(xml, `>o<`, `>é<`, 1)

	encoded, err := charmap.Windows1252.NewEncoder().String(xml)
	require.NoError(t, err)

	doc, err := Parse([]byte(encoded), "latin")
	require.NoError(t, err)
	assert.Equal(t, "é", doc.Pages[0].Blocks[0].Paragraphs[0].Lines[0].Runs[0].Chars[0].Text)
}

func TestParseUnknownEncoding(t *testing.T) {
	xml := strings.Replace(fineReader6, `encoding="UTF-8"`, `encoding="x-no-such-charset"`, 1)
	_, err := Parse([]byte(xml), "x")
	assert.ErrorContains(t, err, "unsupported XML encoding")
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.xml")
	require.NoError(t, os.WriteFile(path, []byte(fineReader8), 0o644))

	modified := time.Date(2020, 5, 17, 8, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, modified, modified))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "book", doc.Name)
	assert.Equal(t, path, doc.FileName)
	assert.True(t, doc.Modified.Equal(modified))
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.ErrorIs(t, err, source.ErrInputNotFound)

	_, err = ParseFile(t.TempDir())
	assert.ErrorIs(t, err, source.ErrInputNotFound)
}

func TestVersionNamespace(t *testing.T) {
	assert.Equal(t, Namespace8, Version8.Namespace())
	assert.Equal(t, Namespace6, Version6.Namespace())
	assert.Equal(t, "", Version("other").Namespace())
}
