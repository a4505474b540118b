// Package ioutils provides file system utilities for ytmgrab.
//
// This package contains functions for:
//   - File writing
//   - Directory creation
//   - Collision-free output paths
package ioutils
