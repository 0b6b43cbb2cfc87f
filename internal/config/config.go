// Package config loads altoconv settings from a YAML file, an optional
// .env file and ALTOCONV_* environment variables, in that order of
// precedence from lowest to highest.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gardar/altoconv/pkg/convert"
	"github.com/gardar/altoconv/pkg/gdocai"
	"github.com/gardar/altoconv/pkg/source"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "ALTOCONV_"

// EnvFile is loaded from the working directory when it exists
const EnvFile = ".env"

// Config holds the converter settings
type Config struct {
	Mode              string           `yaml:"mode"`                // "per-page" or "document"
	Workers           int              `yaml:"workers"`             // Concurrent pages in per-page mode
	TextBlockTypes    []string         `yaml:"text_block_types"`    // Block tags converted as text
	NormalizeFontSize bool             `yaml:"normalize_font_size"` // One decimal font sizes
	Creator           string           `yaml:"creator"`             // softwareCreator in the ALTO header
	DocumentAI        DocumentAIConfig `yaml:"documentai"`
}

// DocumentAIConfig holds the Document AI processor settings
type DocumentAIConfig struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Default returns the built in settings
func Default() Config {
	opts := convert.DefaultOptions()
	return Config{
		Mode:           string(opts.Mode),
		Workers:        opts.Workers,
		TextBlockTypes: []string{source.TypeText},
	}
}

// Load reads the YAML file at path, when path is not empty, on top of the
// defaults and applies the .env file and environment overrides. The result
// is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if _, err := os.Stat(EnvFile); err == nil {
		if err := godotenv.Load(EnvFile); err != nil {
			return cfg, fmt.Errorf("failed to load %s: %w", EnvFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to stat %s: %w", EnvFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides settings from ALTOCONV_* variables
func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("MODE"); ok {
		c.Mode = v
	}
	if v, ok := lookupEnv("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS must be an integer, got %q", EnvPrefix, v)
		}
		c.Workers = n
	}
	if v, ok := lookupEnv("TEXT_BLOCK_TYPES"); ok {
		c.TextBlockTypes = splitList(v)
	}
	if v, ok := lookupEnv("NORMALIZE_FONT_SIZE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sNORMALIZE_FONT_SIZE must be a boolean, got %q", EnvPrefix, v)
		}
		c.NormalizeFontSize = b
	}
	if v, ok := lookupEnv("CREATOR"); ok {
		c.Creator = v
	}
	if v, ok := lookupEnv("DOCUMENTAI_PROJECT_ID"); ok {
		c.DocumentAI.ProjectID = v
	}
	if v, ok := lookupEnv("DOCUMENTAI_LOCATION"); ok {
		c.DocumentAI.Location = v
	}
	if v, ok := lookupEnv("DOCUMENTAI_PROCESSOR_ID"); ok {
		c.DocumentAI.ProcessorID = v
	}
	if v, ok := lookupEnv("DOCUMENTAI_CREDENTIALS_FILE"); ok {
		c.DocumentAI.CredentialsFile = v
	}
	return nil
}

// Validate checks the conversion settings. Document AI settings are
// checked when a Document AI config is requested.
func (c *Config) Validate() error {
	switch convert.Mode(c.Mode) {
	case convert.ModePerPage, convert.ModeDocument:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", convert.ModePerPage, convert.ModeDocument, c.Mode)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if len(c.TextBlockTypes) == 0 {
		return fmt.Errorf("at least one text block type is required")
	}
	return nil
}

// Options converts the settings into conversion options.
func (c *Config) Options(logger logrus.FieldLogger) convert.Options {
	return convert.Options{
		Mode:              convert.Mode(c.Mode),
		Workers:           c.Workers,
		TextBlockTypes:    append([]string(nil), c.TextBlockTypes...),
		NormalizeFontSize: c.NormalizeFontSize,
		Creator:           c.Creator,
		Logger:            logger,
	}
}

// GDocAI returns the validated Document AI processor config.
func (c *Config) GDocAI() (*gdocai.Config, error) {
	cfg := &gdocai.Config{
		ProjectID:       c.DocumentAI.ProjectID,
		Location:        c.DocumentAI.Location,
		ProcessorID:     c.DocumentAI.ProcessorID,
		CredentialsFile: c.DocumentAI.CredentialsFile,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
