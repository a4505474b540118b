package model

// Thumbnail is a single cover image candidate reported by the extractor.
//
// Candidates are compared by area (Width × Height); equal areas are broken
// by a configured resolution-label priority, matched against ID or URL.
type Thumbnail struct {
	// ID is the extractor's identifier for this candidate, usually a
	// resolution label like "maxresdefault" or "hq720".
	ID string

	// URL is where the image bytes can be fetched from.
	URL string

	// Width is the image width in pixels, 0 when unreported.
	Width int

	// Height is the image height in pixels, 0 when unreported.
	Height int
}

// Area returns Width × Height. Candidates without reported dimensions
// have an area of 0 and rank last.
func (t Thumbnail) Area() int {
	return t.Width * t.Height
}
