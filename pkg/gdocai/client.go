package gdocai

import (
	"context"
	"fmt"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/gardar/altoconv/pkg/source"
)

// ProcessDocument sends document bytes to Google Document AI for processing
// and returns the raw Document proto response
func ProcessDocument(ctx context.Context, content []byte, mimeType string, cfg *Config) (*documentaipb.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithEndpoint(cfg.Endpoint())}
	if creds := cfg.credentials(); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	req := &documentaipb.ProcessRequest{
		Name: cfg.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	}

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}

	return resp.Document, nil
}

// DocumentSource processes a document with Document AI and maps the
// response onto a source document named name.
func DocumentSource(ctx context.Context, content []byte, mimeType string, cfg *Config, name string) (*source.Document, *documentaipb.Document, error) {
	raw, err := ProcessDocument(ctx, content, mimeType, cfg)
	if err != nil {
		return nil, nil, err
	}
	return SourceFromProto(raw, name), raw, nil
}
