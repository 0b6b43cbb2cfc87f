package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gardar/altoconv/pkg/alto"
	"github.com/gardar/altoconv/pkg/pdfocr"
)

var (
	pdfInput     string
	pdfImages    string
	pdfOutput    string
	pdfForce     bool
	pdfDebug     bool
	pdfStartPage int
	pdfLayerName string
)

var pdfCmd = &cobra.Command{
	Use:   "pdf [alto files...]",
	Short: "Draw ALTO text onto a PDF as a searchable layer",
	Long: `Overlays the Strings of one or more ALTO files, in page order, onto an
existing PDF (--pdf) or onto a new PDF assembled from page images (--images).
A PDF that already has an OCR layer is refused unless --force is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPDF,
}

func init() {
	pdfCmd.Flags().StringVar(&pdfInput, "pdf", "", "existing PDF to add the text layer to")
	pdfCmd.Flags().StringVar(&pdfImages, "images", "", "comma separated page images to assemble a new PDF from")
	pdfCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "path of the searchable PDF (required)")
	pdfCmd.Flags().BoolVar(&pdfForce, "force", false, "reapply OCR even if the PDF already has an OCR layer")
	pdfCmd.Flags().BoolVar(&pdfDebug, "debug", false, "draw the text layer visibly with word boxes")
	pdfCmd.Flags().IntVar(&pdfStartPage, "start-page", 1, "first PDF page the ALTO pages apply to")
	pdfCmd.Flags().StringVar(&pdfLayerName, "layer-name", pdfocr.DefaultConfig().LayerName, "base name of the OCR layer")
	rootCmd.AddCommand(pdfCmd)
}

func runPDF(cmd *cobra.Command, args []string) error {
	if pdfOutput == "" {
		return fmt.Errorf("--output is required")
	}
	if (pdfInput == "") == (pdfImages == "") {
		return fmt.Errorf("exactly one of --pdf or --images is required")
	}

	doc, err := loadALTOFiles(args)
	if err != nil {
		return err
	}

	ocrConfig := pdfocr.DefaultConfig()
	ocrConfig.Force = pdfForce
	ocrConfig.Debug = pdfDebug
	ocrConfig.DumpPDF = verbose
	ocrConfig.StartPage = pdfStartPage
	ocrConfig.LayerName = pdfLayerName
	ocrConfig.Logger = logger

	var out []byte
	if pdfInput != "" {
		input, err := os.ReadFile(pdfInput)
		if err != nil {
			return fmt.Errorf("failed to read PDF: %w", err)
		}
		out, err = pdfocr.ApplyOCR(input, doc, ocrConfig)
		if err != nil {
			return err
		}
	} else {
		var images [][]byte
		for _, path := range strings.Split(pdfImages, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			images = append(images, data)
		}
		out, err = pdfocr.AssembleWithOCR(doc, images, ocrConfig)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(pdfOutput, out, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	cmd.Printf("%s\t%d pages\t%d strings\n", pdfOutput, len(doc.Layout.Pages), alto.CountStrings(doc))
	return nil
}

// loadALTOFiles parses ALTO files and joins their pages in argument order.
// Text styles are shared by id.
func loadALTOFiles(paths []string) (*alto.Alto, error) {
	joined := &alto.Alto{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read ALTO file: %w", err)
		}
		doc, err := alto.ParseALTO(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(joined.Layout.Pages) == 0 {
			joined.Description = doc.Description
		}
		for _, style := range doc.Styles {
			if _, ok := joined.StyleByID(style.ID); !ok {
				joined.Styles = append(joined.Styles, style)
			}
		}
		joined.Layout.Pages = append(joined.Layout.Pages, doc.Layout.Pages...)
	}
	return joined, nil
}
