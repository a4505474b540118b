package audio

import (
	"strings"
	"testing"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(false)

	content := creator.CreatePlaylist(testEntries())

	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not contain #EXTM3U")
	}
	if !strings.Contains(content, "Queen - Bohemian Rhapsody.mp3") {
		t.Error("M3U should contain track filename")
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(true)

	content := creator.CreatePlaylist(testEntries())

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:355,Queen - Bohemian Rhapsody") {
		t.Error("Extended M3U should contain #EXTINF with duration and display name")
	}
}

func TestPlaylistCreator_RelativePaths(t *testing.T) {
	creator := NewPlaylistCreator(false)

	content := creator.CreatePlaylist(testEntries())

	if strings.Contains(content, "/music/") {
		t.Error("playlist entries should be relative to the playlist location")
	}
}

func testEntries() []PlaylistEntry {
	return []PlaylistEntry{
		{Path: "/music/Queen - Bohemian Rhapsody.mp3", Artist: "Queen", Title: "Bohemian Rhapsody", Duration: 355},
		{Path: "/music/Queen - Somebody to Love.mp3", Artist: "Queen", Title: "Somebody to Love", Duration: 296},
	}
}
