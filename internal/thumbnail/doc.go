// Package thumbnail selects and post-processes video cover images.
//
// # Selection
//
// SelectBest orders candidates by resolution area and breaks ties with a
// configurable label priority (maxresdefault, hq720, ...):
//
//	best, err := thumbnail.SelectBest(candidates, nil)
//	if errors.Is(err, thumbnail.ErrNoThumbnail) {
//	    // no candidates at all; skip cover embedding
//	}
//
// # Processing
//
// Processor turns raw image bytes into a 1000×1000 JPEG ready for tag
// embedding: letterbox bars are cropped, the image is center-cropped to a
// square, resized with Catmull-Rom, and a fixed sharpen/contrast/saturation
// pass is applied:
//
//	cover, err := thumbnail.NewProcessor().Process(rawBytes)
//
// Processing is deterministic and touches no disk; on failure callers fall
// back to the unprocessed bytes.
package thumbnail
