// Package ocr recovers text from scanned documents by rasterizing pages with
// pdftoppm and recognizing them with tesseract. It is the fallback path for
// documents whose embedded text layer is empty.
package ocr
