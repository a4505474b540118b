// Package metadata derives clean track metadata from the raw fields the
// extractor reports for a video.
//
// The Normalizer turns a Raw value into a model.TrackMetadata:
//
//	n := metadata.NewNormalizer(nil) // default boilerplate tokens
//	meta := n.Normalize(metadata.Raw{
//	    Title:    "Queen - Bohemian Rhapsody (Official Video)",
//	    Uploader: "Queen Official",
//	})
//	// meta.Artist = "Queen"
//	// meta.Title  = "Bohemian Rhapsody"
//
// # Script preference
//
// When the primary artist candidate is written in Hiragana, Katakana, CJK
// ideographs or Hangul and a Latin alternative exists in the track,
// alt_title or description fields, the Latin spelling is preferred.
// Classification is a pure code-point range check, see ContainsNonLatin.
//
// # Boilerplate
//
// Channel-suffix boilerplate ("VEVO", "- Topic", "Official Channel", ...)
// is stripped from artist candidates at string boundaries only. The token
// list is configurable data; DefaultBoilerplate provides the defaults.
//
// Everything in this package is deterministic and free of I/O, so it can be
// unit-tested with synthetic strings.
package metadata
