package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/altoconv/pkg/alto"
	"github.com/gardar/altoconv/pkg/convert"
	"github.com/gardar/altoconv/pkg/source"
)

// outputOptions are the flags shared by every conversion command. Flags
// that are set override the loaded config.
type outputOptions struct {
	output            string
	outDir            string
	mode              string
	workers           int
	normalizeFontSize bool
	text              bool
}

func addOutputFlags(cmd *cobra.Command, o *outputOptions) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the single ALTO unit to this file")
	cmd.Flags().StringVar(&o.outDir, "out-dir", ".", "directory for ALTO units named after the input")
	cmd.Flags().StringVar(&o.mode, "mode", "", `"per-page" or "document" (default from config)`)
	cmd.Flags().IntVar(&o.workers, "workers", 0, "pages converted concurrently (default from config)")
	cmd.Flags().BoolVar(&o.normalizeFontSize, "normalize-font-size", false, "format font sizes with one decimal")
	cmd.Flags().BoolVar(&o.text, "text", false, "also write the plain text of each unit next to it")
}

// converter builds a converter from the config and the flags that were set
func (o *outputOptions) converter(cmd *cobra.Command) (*convert.Converter, error) {
	c := cfg
	if cmd.Flags().Changed("mode") {
		c.Mode = o.mode
	}
	if cmd.Flags().Changed("workers") {
		c.Workers = o.workers
	}
	if cmd.Flags().Changed("normalize-font-size") {
		c.NormalizeFontSize = o.normalizeFontSize
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts := c.Options(logger)
	opts.Version = version
	return convert.New(opts), nil
}

// targets maps every unit to its output path
func (o *outputOptions) targets(units []convert.Unit) ([]string, error) {
	if o.output != "" {
		if len(units) != 1 {
			return nil, fmt.Errorf("--output needs a single unit but the conversion produced %d, use --out-dir or --mode document", len(units))
		}
		return []string{o.output}, nil
	}
	paths := make([]string, len(units))
	for i, u := range units {
		paths[i] = filepath.Join(o.outDir, u.Name+".xml")
	}
	return paths, nil
}

// runConversion converts doc and writes every unit. All units are rendered
// before the first file is written.
func runConversion(cmd *cobra.Command, o *outputOptions, doc *source.Document) error {
	conv, err := o.converter(cmd)
	if err != nil {
		return err
	}

	units, err := conv.Convert(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	paths, err := o.targets(units)
	if err != nil {
		return err
	}
	if o.output == "" {
		if err := os.MkdirAll(o.outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for i, u := range units {
		if err := alto.WriteRendered(paths[i], u.XML); err != nil {
			return err
		}
		if o.text {
			textPath := paths[i][:len(paths[i])-len(filepath.Ext(paths[i]))] + ".txt"
			if err := os.WriteFile(textPath, []byte(alto.ExtractALTOText(u.ALTO)), 0o644); err != nil {
				return fmt.Errorf("failed to write text output: %w", err)
			}
		}
		logger.WithFields(logrus.Fields{
			"unit":       u.Name,
			"strings":    u.Stats.Strings,
			"confidence": u.Confidence,
		}).Debug("unit written")
		cmd.Printf("%s\t%d strings\t%g%%\n", paths[i], u.Stats.Strings, u.Confidence)
	}
	return nil
}
