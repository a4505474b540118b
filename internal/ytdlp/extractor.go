package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/wader/goutubedl"
	"github.com/ytmgrab/ytmgrab/internal/metadata"
	"github.com/ytmgrab/ytmgrab/internal/model"
)

// ErrUnsupportedURL is returned when the input is not an http(s) URL on a
// YouTube host.
var ErrUnsupportedURL = errors.New("unsupported URL")

// ErrExtractionFailed wraps failures of the external extractor, typically
// network or availability problems reported by yt-dlp.
var ErrExtractionFailed = errors.New("extraction failed")

// youtubeHosts are the accepted URL hosts.
var youtubeHosts = []string{"youtube.com", "youtu.be"}

// Info is the subset of yt-dlp's info JSON this program reads.
//
// The raw JSON is decoded locally instead of relying on the wrapper
// library's info type, because the music-specific fields (track, alt_title,
// release_year) are not part of it.
type Info struct {
	ID          string      `json:"id"`
	Type        string      `json:"_type"`
	WebpageURL  string      `json:"webpage_url"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Uploader    string      `json:"uploader"`
	Channel     string      `json:"channel"`
	Artist      string      `json:"artist"`
	Creator     string      `json:"creator"`
	Track       string      `json:"track"`
	AltTitle    string      `json:"alt_title"`
	Album       string      `json:"album"`
	UploadDate  string      `json:"upload_date"`
	ReleaseYear int         `json:"release_year"`
	Duration    float64     `json:"duration"`
	Thumbnail   string      `json:"thumbnail"`
	Thumbnails  []thumbnail `json:"thumbnails"`
	Entries     []Info      `json:"entries"`
}

type thumbnail struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Raw converts the info into the normalizer's input form.
func (i *Info) Raw() metadata.Raw {
	return metadata.Raw{
		Title:       i.Title,
		Uploader:    i.Uploader,
		Channel:     i.Channel,
		Artist:      i.Artist,
		Creator:     i.Creator,
		Track:       i.Track,
		AltTitle:    i.AltTitle,
		Album:       i.Album,
		Description: i.Description,
		UploadDate:  i.UploadDate,
		ReleaseYear: i.ReleaseYear,
		Duration:    i.Duration,
	}
}

// ThumbnailCandidates returns the reported cover image candidates. When the
// extractor reports no candidate list but does report a single thumbnail
// URL, that URL becomes the only candidate.
func (i *Info) ThumbnailCandidates() []model.Thumbnail {
	if len(i.Thumbnails) == 0 {
		if i.Thumbnail == "" {
			return nil
		}
		return []model.Thumbnail{{URL: i.Thumbnail}}
	}
	candidates := make([]model.Thumbnail, 0, len(i.Thumbnails))
	for _, t := range i.Thumbnails {
		if t.URL == "" {
			continue
		}
		candidates = append(candidates, model.Thumbnail{
			ID:     t.ID,
			URL:    t.URL,
			Width:  t.Width,
			Height: t.Height,
		})
	}
	return candidates
}

// WatchURL returns a downloadable URL for this entry.
func (i *Info) WatchURL() string {
	if i.WebpageURL != "" {
		return i.WebpageURL
	}
	return "https://www.youtube.com/watch?v=" + i.ID
}

// Extractor wraps yt-dlp (through goutubedl) for metadata extraction and
// audio downloads.
//
// Example:
//
//	ex := ytdlp.NewExtractor(cfg.YtdlpPath)
//	extraction, err := ex.Extract(ctx, url)
//	if err != nil { ... }
//	raw := extraction.Info().Raw()
//	err = extraction.DownloadAudio(ctx, tmpPath, model.FormatMP3)
type Extractor struct{}

// NewExtractor creates an Extractor. A non-empty ytdlpPath overrides the
// yt-dlp binary looked up on PATH.
func NewExtractor(ytdlpPath string) *Extractor {
	if ytdlpPath != "" {
		goutubedl.Path = ytdlpPath
	}
	return &Extractor{}
}

// Extraction is a single extracted video, ready for download. It keeps the
// underlying goutubedl result so the audio download reuses the already
// fetched format information.
type Extraction struct {
	result goutubedl.Result
	info   Info
}

// Info returns the parsed metadata for the extracted video.
func (x *Extraction) Info() *Info {
	return &x.info
}

// Extract fetches metadata for a single video URL without downloading.
//
// Returns ErrUnsupportedURL for non-YouTube input and wraps everything the
// external tool reports in ErrExtractionFailed.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*Extraction, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	return e.extract(ctx, rawURL, goutubedl.TypeSingle)
}

// ExtractPlaylist fetches metadata for a playlist URL, including its
// entries, without downloading.
func (e *Extractor) ExtractPlaylist(ctx context.Context, rawURL string) (*Info, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	x, err := e.extract(ctx, rawURL, goutubedl.TypePlaylist)
	if err != nil {
		return nil, err
	}
	return &x.info, nil
}

// Search runs a YouTube search and returns up to maxResults entries in
// playlist form.
func (e *Extractor) Search(ctx context.Context, query string, maxResults int) (*Info, error) {
	if maxResults < 1 {
		maxResults = 1
	}
	searchURL := fmt.Sprintf("ytsearch%d:%s", maxResults, strings.TrimSpace(query))
	x, err := e.extract(ctx, searchURL, goutubedl.TypePlaylist)
	if err != nil {
		return nil, err
	}
	return &x.info, nil
}

func (e *Extractor) extract(ctx context.Context, input string, typ goutubedl.Type) (*Extraction, error) {
	result, err := goutubedl.New(ctx, input, goutubedl.Options{Type: typ})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, err)
	}

	var info Info
	if err := json.Unmarshal(result.RawJSON, &info); err != nil {
		return nil, fmt.Errorf("%w: decoding info: %s", ErrExtractionFailed, err)
	}

	return &Extraction{result: result, info: info}, nil
}

// DownloadAudio streams the best matching audio for the requested format to
// destPath. The written file keeps whatever container yt-dlp served; the
// Converter produces the final format.
func (x *Extraction) DownloadAudio(ctx context.Context, destPath string, format model.Format) error {
	stream, err := x.result.Download(ctx, AudioFilter(format))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrExtractionFailed, err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			slog.Warn("closing download stream failed", "context", err.Error())
		}
	}()

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("file close failed", "context", err.Error())
		}
	}()

	if _, err := io.Copy(file, stream); err != nil {
		if rmErr := os.Remove(destPath); rmErr != nil {
			slog.Warn("removing partial download failed", "context", rmErr.Error())
		}
		return fmt.Errorf("%w: %s", ErrExtractionFailed, err)
	}
	return nil
}

// AudioFilter maps an output format to the yt-dlp format selection string.
// M4A targets prefer an M4A source so the converter can often avoid a
// lossy re-encode step from another codec family.
func AudioFilter(format model.Format) string {
	switch format {
	case model.FormatMP3, model.FormatFLAC:
		return "bestaudio/best"
	default:
		return "bestaudio[ext=m4a]/bestaudio/best"
	}
}

// ValidateURL checks that rawURL is an http(s) URL on a YouTube host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range youtubeHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return nil
		}
	}
	return fmt.Errorf("%w: host %q", ErrUnsupportedURL, host)
}

// IsURL reports whether the input looks like a URL rather than a search
// query.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// CheckDependencies verifies that the yt-dlp and ffmpeg binaries are
// reachable. Empty paths are looked up on PATH under their default names.
func CheckDependencies(ytdlpPath, ffmpegPath string) error {
	for _, bin := range []struct{ path, name string }{
		{ytdlpPath, "yt-dlp"},
		{ffmpegPath, "ffmpeg"},
	} {
		path := bin.path
		if path == "" {
			path = bin.name
		}
		if _, err := exec.LookPath(path); err != nil {
			return fmt.Errorf("%s is not installed or not found in PATH", bin.name)
		}
	}
	return nil
}
