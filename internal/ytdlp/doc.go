// Package ytdlp wraps the external yt-dlp and ffmpeg tools.
//
// Extractor handles metadata extraction, search and audio downloads through
// yt-dlp; Converter transcodes the downloaded audio into the final output
// format through ffmpeg. Both tools are required at runtime and their
// presence can be verified up front with CheckDependencies.
package ytdlp
