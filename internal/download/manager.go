package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/ytmgrab/ytmgrab/internal/audio"
	"github.com/ytmgrab/ytmgrab/internal/config"
	"github.com/ytmgrab/ytmgrab/internal/http"
	ioutils "github.com/ytmgrab/ytmgrab/internal/io"
	"github.com/ytmgrab/ytmgrab/internal/metadata"
	"github.com/ytmgrab/ytmgrab/internal/model"
	"github.com/ytmgrab/ytmgrab/internal/thumbnail"
	"github.com/ytmgrab/ytmgrab/internal/ytdlp"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Result describes one completed track download.
type Result struct {
	// Path is the final audio file location.
	Path string

	// Meta is the normalized metadata the file was tagged with.
	Meta model.TrackMetadata
}

// PlaylistPreview summarizes a playlist before downloading it.
type PlaylistPreview struct {
	Title    string
	Uploader string
	Entries  []PreviewEntry

	// TotalDuration is the summed track length in seconds.
	TotalDuration int

	// EstimatedBytes is a rough size estimate for the chosen format.
	EstimatedBytes int64
}

// PreviewEntry is one track of a playlist preview.
type PreviewEntry struct {
	Title    string
	Duration int
}

// SearchResult is one entry returned by a search query.
type SearchResult struct {
	URL      string
	Title    string
	Uploader string
	Duration int
}

// Manager coordinates track downloads.
//
// A Manager wires the extractor, converter, metadata normalizer, thumbnail
// pipeline and tag writer together. Per-track cover art and tagging
// problems are reported through the progress callback and do not fail the
// download; extraction and filesystem errors abort the current request.
type Manager struct {
	settings   *config.Settings
	extractor  *ytdlp.Extractor
	converter  *ytdlp.Converter
	normalizer *metadata.Normalizer
	processor  *thumbnail.Processor
	tagger     *audio.Tagger
	playlist   *audio.PlaylistCreator
	httpClient *http.Client

	totalTracks int32
	doneTracks  int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		extractor:  ytdlp.NewExtractor(settings.YtdlpPath),
		converter:  ytdlp.NewConverter(settings.FfmpegPath),
		normalizer: metadata.NewNormalizer(settings.BoilerplateTokens),
		processor:  thumbnail.NewProcessor(settings.CoverArtSize),
		tagger:     audio.NewTagger(settings.ModifyTags),
		playlist:   audio.NewPlaylistCreator(settings.M3UExtended),
		httpClient: http.NewClient(),
		onProgress: onProgress,
	}
}

// CheckDependencies verifies that the external tools are available.
func (m *Manager) CheckDependencies() error {
	return ytdlp.CheckDependencies(m.settings.YtdlpPath, m.settings.FfmpegPath)
}

// DownloadSingle downloads one video URL and returns the written file.
func (m *Manager) DownloadSingle(ctx context.Context, rawURL string) (Result, error) {
	atomic.StoreInt32(&m.totalTracks, 1)
	atomic.StoreInt32(&m.doneTracks, 0)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Extracting: %s", rawURL), Level: LevelVerbose})
	extraction, err := m.extractor.Extract(ctx, rawURL)
	if err != nil {
		return Result{}, err
	}

	result, err := m.downloadExtraction(ctx, extraction)
	if err != nil {
		return Result{}, err
	}
	atomic.AddInt32(&m.doneTracks, 1)
	return result, nil
}

// DownloadPlaylist downloads every entry of a playlist URL. Entries that
// fail are skipped with an error event; the returned results cover the
// tracks that succeeded. When enabled in the settings an M3U playlist file
// is written next to the tracks.
func (m *Manager) DownloadPlaylist(ctx context.Context, rawURL string) ([]Result, error) {
	info, err := m.extractor.ExtractPlaylist(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if len(info.Entries) == 0 {
		return nil, fmt.Errorf("%w: playlist has no entries", ytdlp.ErrExtractionFailed)
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Playlist: %s (%d tracks)", info.Title, len(info.Entries)),
		Level:   LevelInfo,
	})

	atomic.StoreInt32(&m.totalTracks, int32(len(info.Entries)))
	atomic.StoreInt32(&m.doneTracks, 0)

	results := make([]Result, 0, len(info.Entries))

	// Tracks are processed one at a time. The group exists for context
	// cancellation, not parallelism: yt-dlp and ffmpeg already saturate
	// the network and CPU for a single track.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(1)

	for i := range info.Entries {
		entry := &info.Entries[i]
		index := i + 1
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("[%d/%d] %s", index, len(info.Entries), entry.Title),
				Level:   LevelInfo,
			})

			extraction, err := m.extractor.Extract(ctx, entry.WatchURL())
			if err != nil {
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Skipping %s: %v", entry.Title, err),
					Level:   LevelError,
				})
				atomic.AddInt32(&m.doneTracks, 1)
				return nil
			}

			result, err := m.downloadExtraction(ctx, extraction)
			if err != nil {
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Skipping %s: %v", entry.Title, err),
					Level:   LevelError,
				})
				atomic.AddInt32(&m.doneTracks, 1)
				return nil
			}

			results = append(results, result)
			atomic.AddInt32(&m.doneTracks, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	if m.settings.CreatePlaylist && len(results) > 0 {
		m.writePlaylistFile(ctx, info.Title, results)
	}

	if len(results) == len(info.Entries) {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Downloaded playlist: %s", info.Title),
			Level:   LevelSuccess,
		})
	} else {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Finished %s, %d of %d tracks failed", info.Title, len(info.Entries)-len(results), len(info.Entries)),
			Level:   LevelWarning,
		})
	}

	return results, nil
}

// PreviewPlaylist fetches a playlist's metadata without downloading.
func (m *Manager) PreviewPlaylist(ctx context.Context, rawURL string) (*PlaylistPreview, error) {
	info, err := m.extractor.ExtractPlaylist(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	preview := &PlaylistPreview{
		Title:    info.Title,
		Uploader: info.Uploader,
		Entries:  make([]PreviewEntry, 0, len(info.Entries)),
	}
	for _, entry := range info.Entries {
		duration := int(entry.Duration)
		preview.Entries = append(preview.Entries, PreviewEntry{
			Title:    entry.Title,
			Duration: duration,
		})
		preview.TotalDuration += duration
	}
	preview.EstimatedBytes = EstimateSize(preview.TotalDuration, m.settings.OutputFormat())
	return preview, nil
}

// Search runs a search query and returns up to the configured number of
// results without downloading anything.
func (m *Manager) Search(ctx context.Context, query string) ([]SearchResult, error) {
	info, err := m.extractor.Search(ctx, query, m.settings.SearchMaxResults)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(info.Entries))
	for _, entry := range info.Entries {
		results = append(results, SearchResult{
			URL:      entry.WatchURL(),
			Title:    entry.Title,
			Uploader: entry.Uploader,
			Duration: int(entry.Duration),
		})
	}
	return results, nil
}

// SearchAndDownload searches for the query and downloads the top result.
func (m *Manager) SearchAndDownload(ctx context.Context, query string) (Result, error) {
	results, err := m.Search(ctx, query)
	if err != nil {
		return Result{}, err
	}
	if len(results) == 0 {
		return Result{}, fmt.Errorf("%w: no results for %q", ytdlp.ErrExtractionFailed, query)
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Top result: %s (%s)", results[0].Title, results[0].Uploader),
		Level:   LevelInfo,
	})
	return m.DownloadSingle(ctx, results[0].URL)
}

// GetProgress returns the number of finished and total tracks of the
// current request.
func (m *Manager) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&m.doneTracks), atomic.LoadInt32(&m.totalTracks)
}

// downloadExtraction runs the per-track pipeline: download, convert, cover
// art, tags.
func (m *Manager) downloadExtraction(ctx context.Context, extraction *ytdlp.Extraction) (Result, error) {
	info := extraction.Info()
	meta := m.normalizer.Normalize(info.Raw())
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("%s - %s", meta.Artist, meta.Title),
		Level:   LevelInfo,
	})

	if err := ioutils.EnsureDir(m.settings.DownloadsPath); err != nil {
		return Result{}, err
	}

	format := m.settings.OutputFormat()
	tmpPath := filepath.Join(os.TempDir(), "ytmgrab-"+info.ID+".audio")
	if err := extraction.DownloadAudio(ctx, tmpPath, format); err != nil {
		return Result{}, err
	}
	defer os.Remove(tmpPath)

	namingCfg := m.settings.ToNamingConfig()
	destPath := ioutils.UniquePath(meta.Path(m.settings.DownloadsPath, &namingCfg, format))

	m.progress(ProgressEvent{Message: fmt.Sprintf("Converting to %s", format), Level: LevelVerbose})
	if err := m.converter.Convert(tmpPath, destPath, format); err != nil {
		return Result{}, err
	}

	var artwork []byte
	if m.settings.EmbedCoverArt {
		artwork = m.fetchArtwork(ctx, info)
	}

	if m.settings.ModifyTags || artwork != nil {
		if err := m.tagger.SaveTags(destPath, meta, artwork); err != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Error tagging %s: %v", meta.Title, err),
				Level:   LevelWarning,
			})
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloaded: %s", filepath.Base(destPath)),
		Level:   LevelSuccess,
	})
	return Result{Path: destPath, Meta: meta}, nil
}

// fetchArtwork selects, downloads and processes the cover thumbnail.
// Selection and download failures are reported as warnings and leave the
// track without cover art. When only the processing step fails, for
// instance on an image format without a registered decoder, the fetched
// bytes are embedded as-is.
func (m *Manager) fetchArtwork(ctx context.Context, info *ytdlp.Info) []byte {
	best, err := thumbnail.SelectBest(info.ThumbnailCandidates(), m.settings.ThumbnailPriority)
	if err != nil {
		m.progress(ProgressEvent{Message: "No cover thumbnail available", Level: LevelWarning})
		return nil
	}

	data, err := m.httpClient.Get(ctx, best.URL)
	if err != nil {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Error downloading cover: %v", err),
			Level:   LevelWarning,
		})
		return nil
	}

	processed, err := m.processor.Process(data)
	if err != nil {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Error processing cover, embedding original: %v", err),
			Level:   LevelWarning,
		})
		return data
	}
	return processed
}

func (m *Manager) writePlaylistFile(ctx context.Context, title string, results []Result) {
	entries := make([]audio.PlaylistEntry, 0, len(results))
	for _, result := range results {
		entries = append(entries, audio.PlaylistEntry{
			Path:     result.Path,
			Artist:   result.Meta.Artist,
			Title:    result.Meta.Title,
			Duration: result.Meta.Duration,
		})
	}

	name := model.SanitizeFileName(title)
	if name == "" {
		name = "playlist"
	}
	path := ioutils.UniquePath(filepath.Join(m.settings.DownloadsPath, name+".m3u"))

	content := m.playlist.CreatePlaylist(entries)
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Error creating playlist file: %v", err),
			Level:   LevelWarning,
		})
		return
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Created playlist: %s", filepath.Base(path)),
		Level:   LevelSuccess,
	})
}

// EstimateSize returns a rough byte estimate for totalDuration seconds of
// audio in the given format.
func EstimateSize(totalDuration int, format model.Format) int64 {
	kbps := int64(256)
	switch format {
	case model.FormatMP3:
		kbps = 245
	case model.FormatFLAC:
		kbps = 900
	}
	// kbps * 1000 / 8 bytes per second
	return int64(totalDuration) * kbps * 125
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
