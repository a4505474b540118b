// Package model defines the core data structures used throughout ytmgrab.
//
// # TrackMetadata
//
// TrackMetadata carries the normalized metadata for one track and computes
// the output filename from a template:
//
//	meta := model.TrackMetadata{Artist: "Queen", Title: "Bohemian Rhapsody"}
//	cfg := &model.NamingConfig{FileNameFormat: "{artist} - {title}"}
//	fmt.Println(meta.FileName(cfg, model.FormatMP3)) // "Queen - Bohemian Rhapsody.mp3"
//
// # Thumbnail
//
// Thumbnail is one cover image candidate with its reported resolution.
// Selection between candidates lives in the thumbnail package.
//
// # Format
//
// Format enumerates the supported output audio formats (best, mp3, m4a,
// flac) and maps each to its file extension.
//
// All types in this package are plain values with no I/O; they are created
// per download request and discarded afterwards.
package model
