// Package download orchestrates the per-track pipeline.
//
// Manager ties together URL extraction, audio download and conversion,
// metadata normalization, cover thumbnail processing and tag writing.
// Progress is reported through a callback so both the command line
// frontend and the interactive shell can render it their own way.
package download
