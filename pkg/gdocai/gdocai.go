// Package gdocai provides the Google Document AI source for ALTO conversion.
//
// A document is sent to a Document AI OCR processor and the returned layout
// is mapped onto the neutral source tree: blocks, paragraphs, lines and
// tokens are nested by their text anchors, tokens become formatting runs
// and page symbols become characters. Coordinates are scaled from the
// normalized vertices to page pixels.
//
// Main Functions:
//
// - ProcessDocument: Sends a document to Google Document AI for processing
// - SourceFromProto: Maps a Document AI response onto a source document
// - DocumentSource: Processes a document and maps the response in one step
// - ToJSON: Dumps a response for inspection
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS or Config.CredentialsFile
package gdocai
