// Package batch redacts red-annotated regions in many image files at once.
//
// Each file is decoded, scanned for red frames, rendered with the configured
// parameters and written as PNG next to the input (or into an output
// directory) with the suffix "-redacted.png". Files are processed
// concurrently up to a job limit; one bad file does not stop the rest.
package batch
