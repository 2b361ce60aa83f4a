// Package hmst reads and writes HAMSTERS v7 task-model documents.
//
// The reader pulls the first task tree out of the nodes section plus the
// flattened datas and errors sections; the writer renders a full document
// with every boilerplate section the schema requires. Elements are
// matched by local tag, so namespace drift across editor builds does not
// break reading.
package hmst

// Dialect constants for the v7 document format.
const (
	Namespace      = "https://www.irit.fr/ICS/HAMSTERS/7.0"
	SchemaLocation = "https://www.irit.fr/recherches/ICS/xsd/hamsters/v7/v7.xsd"
	Version        = "7"
	RootTag        = "hamsters"

	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
)
