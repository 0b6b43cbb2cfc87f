package main

import (
	"github.com/spf13/cobra"

	"github.com/gardar/altoconv/pkg/hocr"
)

var hocrOut outputOptions

var hocrCmd = &cobra.Command{
	Use:   "hocr [file]",
	Short: "Convert hOCR to ALTO",
	Long: `Converts an hOCR document to ALTO. Words with ocrx_cinfo spans are boxed
from their characters, other words from their own bounding box.`,
	Args: cobra.ExactArgs(1),
	RunE: runHOCR,
}

func init() {
	addOutputFlags(hocrCmd, &hocrOut)
	rootCmd.AddCommand(hocrCmd)
}

func runHOCR(cmd *cobra.Command, args []string) error {
	doc, err := hocr.ParseFile(args[0])
	if err != nil {
		return err
	}
	logger.WithField("pages", len(doc.Pages)).Debug("hOCR document parsed")
	return runConversion(cmd, &hocrOut, doc)
}
