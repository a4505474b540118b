package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PlaylistEntry is one track of a generated playlist.
type PlaylistEntry struct {
	// Path is the downloaded file path. Only the base name ends up in
	// the playlist, which is written next to the tracks.
	Path string

	// Artist and Title fill the #EXTINF display name.
	Artist string
	Title  string

	// Duration is the track length in seconds.
	Duration int
}

// PlaylistCreator generates M3U playlist files.
//
// Example:
//
//	creator := NewPlaylistCreator(true)
//	content := creator.CreatePlaylist(entries)
//	os.WriteFile("/music/My Mix.m3u", []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:180,Artist - Song Title
//	// Artist - Song Title.mp3
type PlaylistCreator struct {
	extended bool // include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator. When extended is true
// the playlist starts with #EXTM3U and each track gets an #EXTINF line.
func NewPlaylistCreator(extended bool) *PlaylistCreator {
	return &PlaylistCreator{extended: extended}
}

// CreatePlaylist generates M3U playlist content for the entries.
//
// Returns the playlist as a string, ready to be written to a file.
// Track paths in the playlist are relative (just the filename),
// assuming the playlist file is in the same directory as the tracks.
func (p *PlaylistCreator) CreatePlaylist(entries []PlaylistEntry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, entry := range entries {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", entry.Duration, entry.Artist, entry.Title))
		}
		sb.WriteString(filepath.Base(entry.Path) + "\n")
	}

	return sb.String()
}
