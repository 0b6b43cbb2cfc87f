// altoconv converts OCR engine output into ALTO v2 XML and overlays ALTO
// text onto PDFs.
//
// Usage:
//
//	altoconv abbyy scan.xml [flags]      FineReader 6/8 XML to ALTO
//	altoconv hocr scan.hocr [flags]      hOCR to ALTO
//	altoconv gdocai scan.pdf [flags]     Google Document AI OCR to ALTO
//	altoconv pdf *.xml -o out.pdf        ALTO text layer on a PDF or page images
//	altoconv layers scan.pdf             List PDF layers and existing OCR
//
// Settings are read from --config (YAML), a .env file in the working
// directory and ALTOCONV_* environment variables. Document AI
// authentication uses GOOGLE_APPLICATION_CREDENTIALS.
//
// Example:
//
//	altoconv abbyy book.xml --out-dir alto/ --workers 4
//	altoconv abbyy book.xml --mode document -o book.alto.xml --text
//	altoconv pdf alto/book_0001.xml alto/book_0002.xml --pdf book.pdf -o book_ocr.pdf
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
