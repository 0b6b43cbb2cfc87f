package alto

import (
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/alto.tmpl
var templateFS embed.FS

var altoTemplate = template.Must(template.New("alto.tmpl").Funcs(template.FuncMap{
	"esc": escapeXML,
	"box": boxAttrs,
}).ParseFS(templateFS, "templates/alto.tmpl"))

// templateData wraps the document with the constant schema pointers
type templateData struct {
	Namespace      string
	XSI            string
	SchemaLocation string
	Doc            *Alto
}

// GenerateALTODocument renders an ALTO XML document from the Alto struct
// using the embedded template.
func GenerateALTODocument(doc *Alto) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("ALTO document is nil")
	}

	var buf bytes.Buffer
	err := altoTemplate.Execute(&buf, templateData{
		Namespace:      Namespace,
		XSI:            XSINamespace,
		SchemaLocation: SchemaLocation,
		Doc:            doc,
	})
	if err != nil {
		return "", fmt.Errorf("error rendering ALTO template: %w", err)
	}

	return buf.String(), nil
}

// WriteFile renders the document and writes it to path. The content is
// written to a temporary file in the same directory and renamed into place,
// so readers never observe a partially written document.
func WriteFile(path string, doc *Alto) error {
	content, err := GenerateALTODocument(doc)
	if err != nil {
		return err
	}
	return WriteRendered(path, content)
}

// WriteRendered atomically writes already rendered ALTO XML to path.
func WriteRendered(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// escapeXML escapes text for use in element content and attribute values
func escapeXML(s string) string {
	var b strings.Builder
	// xml.EscapeText never fails when writing to a strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// boxAttrs renders the four ALTO geometry attributes
func boxAttrs(b Box) string {
	return fmt.Sprintf(`HPOS="%d" VPOS="%d" WIDTH="%d" HEIGHT="%d"`, b.HPos, b.VPos, b.Width, b.Height)
}
