// Package audio writes metadata tags, cover art and playlist files for
// downloaded tracks.
//
// Tagger routes by file extension to an ID3v2, MP4 or FLAC writer.
// PlaylistCreator generates M3U playlists for playlist downloads.
package audio
