package model

import "fmt"

// Format is the requested output audio format.
type Format string

const (
	// FormatBest keeps the highest quality audio and stores it in an M4A
	// container, which has the widest metadata support.
	FormatBest Format = "best"

	// FormatMP3 transcodes to MP3 at the encoder's best VBR quality.
	FormatMP3 Format = "mp3"

	// FormatM4A produces an M4A (AAC) file.
	FormatM4A Format = "m4a"

	// FormatFLAC produces a lossless FLAC file.
	FormatFLAC Format = "flac"
)

// ParseFormat validates a user supplied format string.
//
// An empty string maps to FormatBest. Unknown values return an error listing
// the accepted formats.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatBest, nil
	case FormatBest, FormatMP3, FormatM4A, FormatFLAC:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want best, mp3, m4a or flac)", s)
	}
}

// Ext returns the output file extension for the format, including the dot.
// FormatBest resolves to ".m4a".
func (f Format) Ext() string {
	switch f {
	case FormatMP3:
		return ".mp3"
	case FormatFLAC:
		return ".flac"
	default:
		return ".m4a"
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	if f == "" {
		return string(FormatBest)
	}
	return string(f)
}
