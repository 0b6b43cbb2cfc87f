// Package alto implements the object model, serialization and re-parsing of
// ALTO layout documents, the Library of Congress XML standard for page
// geometry and recognized text.
//
// This package provides:
//
// - An object model for the ALTO hierarchy with a shared style table
// - Functions for rendering ALTO XML from the model (embedded template)
// - Atomic file output so a failed batch never leaves a partial file
// - Functions for re-reading ALTO XML and extracting plain text
//
// The hierarchy follows ALTO v2:
// Document → Layout → Page → PrintSpace → TextBlock → TextLine → (String, SP)*,
// with Styles → TextStyle attached to the document root.
//
// Main Functions:
//
// - GenerateALTODocument: Renders the model as ALTO XML
// - WriteFile: Renders and atomically writes a document
// - ParseALTO: Parses ALTO XML back into the model
// - ExtractALTOText: Extracts the plain text of a document
package alto

const (
	// Namespace is the ALTO v2 namespace written on the root element.
	Namespace = "http://www.loc.gov/standards/alto/ns-v2#"

	// SchemaLocation points at the ALTO v2 schema.
	SchemaLocation = "http://www.loc.gov/standards/alto/ns-v2# http://www.loc.gov/standards/alto/alto-v2.0.xsd"

	// XSINamespace is the XML Schema instance namespace.
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
)
