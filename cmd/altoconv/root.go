package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/altoconv/internal/config"
)

var (
	version = "dev"

	configPath string
	verbose    bool

	// cfg holds the settings loaded before every command runs
	cfg    config.Config
	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "altoconv",
	Short: "Convert OCR output to ALTO XML",
	Long: `Converts ABBYY FineReader XML, hOCR and Google Document AI results into
ALTO v2 layout documents, one per page or one per document, and draws ALTO
text onto PDFs as an invisible searchable layer.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded
	logger.WithFields(logrus.Fields{
		"config":  configPath,
		"mode":    cfg.Mode,
		"workers": cfg.Workers,
	}).Debug("settings loaded")
	return nil
}
