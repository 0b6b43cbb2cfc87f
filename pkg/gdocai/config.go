package gdocai

import (
	"fmt"
	"os"
)

// Config holds the Document AI processor settings
type Config struct {
	ProjectID       string // Google Cloud project id
	Location        string // Processor region, e.g. "us" or "eu"
	ProcessorID     string // OCR processor id
	CredentialsFile string // Service account key, GOOGLE_APPLICATION_CREDENTIALS when empty
}

// Validate checks that the processor can be addressed.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("document AI config is nil")
	}
	if c.ProjectID == "" {
		return fmt.Errorf("document AI project id is required")
	}
	if c.Location == "" {
		return fmt.Errorf("document AI location is required")
	}
	if c.ProcessorID == "" {
		return fmt.Errorf("document AI processor id is required")
	}
	return nil
}

// ProcessorName returns the resource name of the processor.
func (c *Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// Endpoint returns the regional API endpoint.
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}

// credentials resolves the service account key file
func (c *Config) credentials() string {
	if c.CredentialsFile != "" {
		return c.CredentialsFile
	}
	return os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
}
