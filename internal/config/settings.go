package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/ytmgrab/ytmgrab/internal/metadata"
	"github.com/ytmgrab/ytmgrab/internal/model"
	"github.com/ytmgrab/ytmgrab/internal/thumbnail"
)

// Settings holds the user configuration. Values are read from a JSON file
// and can be overridden through environment variables.
type Settings struct {
	// DownloadsPath is the directory downloaded audio files are saved to.
	DownloadsPath string `json:"downloadsPath" env:"YTMGRAB_DOWNLOADS_PATH"`

	// Format is the output audio format: "mp3", "m4a", "flac" or "best".
	Format string `json:"format" env:"YTMGRAB_FORMAT"`

	// FileNameFormat is the saved file name pattern. Placeholders
	// {artist}, {title} and {year} are replaced per track.
	FileNameFormat string `json:"fileNameFormat" env:"YTMGRAB_FILENAME_FORMAT"`

	// EmbedCoverArt embeds the processed thumbnail into the audio file.
	EmbedCoverArt bool `json:"embedCoverArt" env:"YTMGRAB_EMBED_COVER_ART"`

	// CoverArtSize is the edge length in pixels of the embedded cover.
	CoverArtSize int `json:"coverArtSize" env:"YTMGRAB_COVER_ART_SIZE"`

	// ModifyTags writes artist, title, album, year and genre tags.
	ModifyTags bool `json:"modifyTags" env:"YTMGRAB_MODIFY_TAGS"`

	// CreatePlaylist writes an M3U file next to playlist downloads.
	CreatePlaylist bool `json:"createPlaylist" env:"YTMGRAB_CREATE_PLAYLIST"`

	// M3UExtended writes extended M3U with #EXTINF entries.
	M3UExtended bool `json:"m3uExtended" env:"YTMGRAB_M3U_EXTENDED"`

	// YtdlpPath overrides the yt-dlp binary found on PATH.
	YtdlpPath string `json:"ytdlpPath" env:"YTMGRAB_YTDLP_PATH"`

	// FfmpegPath overrides the ffmpeg binary found on PATH.
	FfmpegPath string `json:"ffmpegPath" env:"YTMGRAB_FFMPEG_PATH"`

	// SearchMaxResults caps how many results a search fetches.
	SearchMaxResults int `json:"searchMaxResults" env:"YTMGRAB_SEARCH_MAX_RESULTS"`

	// BoilerplateTokens are channel name suffixes stripped when deriving
	// the artist name.
	BoilerplateTokens []string `json:"boilerplateTokens" env:"YTMGRAB_BOILERPLATE_TOKENS"`

	// ThumbnailPriority orders thumbnail labels used to break ties
	// between equally sized cover candidates.
	ThumbnailPriority []string `json:"thumbnailPriority" env:"YTMGRAB_THUMBNAIL_PRIORITY"`
}

// DefaultSettings returns the settings used when no configuration file
// exists yet. The downloads folder defaults to a "Music" directory under
// the user's home.
func DefaultSettings() Settings {
	downloads := "Music"
	if home, err := os.UserHomeDir(); err == nil {
		downloads = filepath.Join(home, "Music")
	}
	return Settings{
		DownloadsPath:     downloads,
		Format:            string(model.FormatBest),
		FileNameFormat:    "{artist} - {title}",
		EmbedCoverArt:     true,
		CoverArtSize:      thumbnail.TargetSize,
		ModifyTags:        true,
		CreatePlaylist:    false,
		M3UExtended:       true,
		SearchMaxResults:  5,
		BoilerplateTokens: metadata.DefaultBoilerplate(),
		ThumbnailPriority: thumbnail.DefaultLabelPriority(),
	}
}

// Load reads settings from path, falling back to defaults when the file
// does not exist. Environment variables override both.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &settings); err != nil {
			return settings, fmt.Errorf("reading settings %q: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&settings); err != nil {
			return settings, fmt.Errorf("reading settings from environment: %w", err)
		}
	}

	if _, err := model.ParseFormat(settings.Format); err != nil {
		return settings, err
	}
	return settings, nil
}

// Save writes the settings to path as indented JSON, creating parent
// directories as needed.
func (s Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// OutputFormat returns the parsed audio format.
func (s Settings) OutputFormat() model.Format {
	format, err := model.ParseFormat(s.Format)
	if err != nil {
		return model.FormatBest
	}
	return format
}

// ToNamingConfig converts the settings into the file naming configuration.
func (s Settings) ToNamingConfig() model.NamingConfig {
	return model.NamingConfig{FileNameFormat: s.FileNameFormat}
}

// DefaultPath returns the default settings file location under the user's
// configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "ytmgrab.json"
	}
	return filepath.Join(dir, "ytmgrab", "settings.json")
}
