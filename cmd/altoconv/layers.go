package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gardar/altoconv/pkg/pdfocr"
)

var layersName string

var layersCmd = &cobra.Command{
	Use:   "layers [pdf]",
	Short: "List the layers of a PDF and report existing OCR",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayers,
}

func init() {
	layersCmd.Flags().StringVar(&layersName, "layer-name", pdfocr.DefaultConfig().LayerName, "base name of the OCR layer")
	rootCmd.AddCommand(layersCmd)
}

func runLayers(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}

	ocrConfig := pdfocr.DefaultConfig()
	ocrConfig.LayerName = layersName
	result, err := pdfocr.DetectOCR(data, ocrConfig)
	if err != nil {
		return err
	}

	for i, layer := range result.LayerInfo.Layers {
		cmd.Printf("%d. %s\n", i+1, layer)
	}
	for _, warning := range result.Warnings {
		cmd.Printf("Warning: %s\n", warning)
	}
	if result.HasOCR {
		cmd.Printf("OCR layer found: %s\n", result.LayerInfo.OCRLayerName)
	} else {
		cmd.Println("No OCR layer found")
	}
	return nil
}
