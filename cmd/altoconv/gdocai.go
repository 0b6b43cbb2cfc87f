package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gardar/altoconv/pkg/gdocai"
	"github.com/gardar/altoconv/pkg/source"
)

var (
	gdocaiOut      outputOptions
	gdocaiDumpJSON string
)

var gdocaiCmd = &cobra.Command{
	Use:   "gdocai [file]",
	Short: "OCR a document with Google Document AI and convert it to ALTO",
	Long: `Sends a PDF or image to the configured Document AI OCR processor and
converts the returned layout to ALTO. The processor is set under documentai
in the config file or with ALTOCONV_DOCUMENTAI_* variables.`,
	Args: cobra.ExactArgs(1),
	RunE: runGDocAI,
}

func init() {
	addOutputFlags(gdocaiCmd, &gdocaiOut)
	gdocaiCmd.Flags().StringVar(&gdocaiDumpJSON, "dump-json", "", "save the raw API response as JSON")
	rootCmd.AddCommand(gdocaiCmd)
}

// extraMimeTypes covers scan formats missing from the builtin mime table
var extraMimeTypes = map[string]string{
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".bmp":  "image/bmp",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

func mimeTypeOf(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extraMimeTypes[ext]; ok {
		return t, nil
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t, nil
	}
	return "", fmt.Errorf("cannot determine the MIME type of %s", path)
}

func runGDocAI(cmd *cobra.Command, args []string) error {
	path := args[0]
	gcfg, err := cfg.GDocAI()
	if err != nil {
		return err
	}
	mimeType, err := mimeTypeOf(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", source.ErrInputNotFound, path)
		}
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	logger.WithField("processor", gcfg.ProcessorName()).WithField("mime", mimeType).Info("Processing document with Document AI")
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc, raw, err := gdocai.DocumentSource(cmd.Context(), content, mimeType, gcfg, name)
	if err != nil {
		return err
	}
	doc.FileName = path
	doc.Modified = info.ModTime()

	if gdocaiDumpJSON != "" {
		out, err := gdocai.ToJSON(raw)
		if err != nil {
			return err
		}
		if err := os.WriteFile(gdocaiDumpJSON, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to save API response: %w", err)
		}
	}

	return runConversion(cmd, &gdocaiOut, doc)
}
