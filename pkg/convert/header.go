package convert

import (
	"path/filepath"

	"github.com/gardar/altoconv/pkg/alto"
	"github.com/gardar/altoconv/pkg/source"
)

const (
	measurementUnit = "pixel"
	processingID    = "OCR_1"
	softwareName    = "altoconv"
)

// buildDescription fills the static header fields that do not depend on
// geometry. The processing settings are added once confidence is final.
func buildDescription(doc *source.Document, opts Options) alto.Description {
	desc := alto.Description{
		MeasurementUnit: measurementUnit,
		FileName:        filepath.Base(doc.FileName),
		Processing: alto.OCRProcessing{
			ID: processingID,
			Step: alto.ProcessingStep{
				Software: alto.Software{
					Creator: opts.Creator,
					Name:    softwareName,
					Version: opts.Version,
				},
			},
		},
	}
	if doc.FileName == "" {
		desc.FileName = doc.Name
	}
	if !doc.Modified.IsZero() {
		desc.Processing.Step.DateTime = doc.Modified.Format("2006-01-02")
	}
	return desc
}
