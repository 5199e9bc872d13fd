// Command boxcar extracts container codes from rail waybill PDFs and renames
// the files after the code it found. Subcommands cover batch processing,
// single-file previews, journal inspection, and configuration management.
package main
