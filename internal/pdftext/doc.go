// Package pdftext reads the embedded text layer of PDF documents through the
// pdftotext binary and preflights files with a page-count probe.
package pdftext
