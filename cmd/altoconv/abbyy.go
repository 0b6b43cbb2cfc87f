package main

import (
	"github.com/spf13/cobra"

	"github.com/gardar/altoconv/pkg/abbyy"
)

var abbyyOut outputOptions

var abbyyCmd = &cobra.Command{
	Use:   "abbyy [file]",
	Short: "Convert ABBYY FineReader XML to ALTO",
	Long: `Converts a FineReader 8 or FineReader 6 XML export to ALTO. The schema
variant is detected from the document namespace.`,
	Args: cobra.ExactArgs(1),
	RunE: runAbbyy,
}

func init() {
	addOutputFlags(abbyyCmd, &abbyyOut)
	rootCmd.AddCommand(abbyyCmd)
}

func runAbbyy(cmd *cobra.Command, args []string) error {
	doc, err := abbyy.ParseFile(args[0])
	if err != nil {
		return err
	}
	logger.WithField("variant", doc.Variant).WithField("pages", len(doc.Pages)).Debug("ABBYY document parsed")
	return runConversion(cmd, &abbyyOut, doc)
}
