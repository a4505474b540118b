package model

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// TrackMetadata holds the normalized metadata for a single downloaded track.
//
// TrackMetadata is derived once per download request from the raw info the
// extractor returns and is discarded after the audio file has been written
// and tagged. Artist and Title are guaranteed non-empty after normalization;
// the remaining fields are best effort.
//
// Example:
//
//	meta := model.TrackMetadata{Artist: "Queen", Title: "Bohemian Rhapsody"}
//	name := meta.FileName(cfg, model.FormatMP3)
//	// name = "Queen - Bohemian Rhapsody.mp3"
type TrackMetadata struct {
	// Title is the cleaned track title.
	Title string

	// Artist is the cleaned artist name.
	Artist string

	// Album is the album title, falling back to the track title when the
	// source provides none.
	Album string

	// Year is the release year, 0 when unknown.
	Year int

	// Duration is the track length in seconds, 0 when unknown.
	Duration int

	// Genre is the track genre, defaulting to "Music".
	Genre string
}

// NamingConfig holds output file naming settings.
//
// The FileNameFormat supports placeholders that are replaced with values
// from the metadata:
//   - {artist} - Artist name
//   - {title} - Track title
//   - {year} - Release year (empty string when unknown)
//
// The extension is appended separately based on the requested Format.
type NamingConfig struct {
	// FileNameFormat is the template for output filenames, without extension.
	FileNameFormat string
}

// FileName computes the output filename for this track, including extension.
//
// Placeholders in cfg.FileNameFormat are substituted with metadata values and
// the result is sanitized for cross-platform filesystem use. The extension
// comes from the requested audio format.
//
// Example:
//
//	cfg := &NamingConfig{FileNameFormat: "{artist} - {title}"}
//	meta.FileName(cfg, FormatFLAC) // "Artist - Title.flac"
func (m TrackMetadata) FileName(cfg *NamingConfig, format Format) string {
	name := cfg.FileNameFormat
	name = strings.ReplaceAll(name, "{artist}", m.Artist)
	name = strings.ReplaceAll(name, "{title}", m.Title)
	year := ""
	if m.Year > 0 {
		year = strconv.Itoa(m.Year)
	}
	name = strings.ReplaceAll(name, "{year}", year)
	return SanitizeFileName(name) + format.Ext()
}

// Path computes the full output path for this track below dir.
//
// The total path is truncated to stay under the Windows MAX_PATH limit,
// preserving the extension.
func (m TrackMetadata) Path(dir string, cfg *NamingConfig, format Format) string {
	fileName := m.FileName(cfg, format)
	path := filepath.Join(dir, fileName)

	if len(path) >= 260 {
		ext := format.Ext()
		maxLen := len(fileName) - (len(path) - 259) - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			path = filepath.Join(dir, fileName[:maxLen]+ext)
		}
	}

	return path
}

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names. It is used for track files and generated playlist
// files alike.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Leading and trailing whitespace is removed
func SanitizeFileName(name string) string {
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	return strings.Trim(name, " ")
}
