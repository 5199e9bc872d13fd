// Package rename moves a document to its container-code filename without
// clobbering existing files. Naive collisions get an incrementing numeric
// suffix, and existence is re-checked immediately before the move.
package rename
