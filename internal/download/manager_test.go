package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ytmgrab/ytmgrab/internal/config"
	"github.com/ytmgrab/ytmgrab/internal/model"
	"github.com/ytmgrab/ytmgrab/internal/ytdlp"
)

func TestEstimateSize(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		format   model.Format
		want     int64
	}{
		{"mp3 one minute", 60, model.FormatMP3, 60 * 245 * 125},
		{"m4a one minute", 60, model.FormatM4A, 60 * 256 * 125},
		{"flac one minute", 60, model.FormatFLAC, 60 * 900 * 125},
		{"zero duration", 0, model.FormatMP3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateSize(tt.duration, tt.format); got != tt.want {
				t.Errorf("EstimateSize(%d, %s) = %d, want %d", tt.duration, tt.format, got, tt.want)
			}
		})
	}
}

func TestNewManagerProgressCallback(t *testing.T) {
	settings := config.DefaultSettings()

	var events []ProgressEvent
	m := NewManager(&settings, func(e ProgressEvent) {
		events = append(events, e)
	})

	m.progress(ProgressEvent{Message: "hello", Level: LevelInfo})
	if len(events) != 1 || events[0].Message != "hello" {
		t.Fatalf("events = %+v", events)
	}

	done, total := m.GetProgress()
	if done != 0 || total != 0 {
		t.Errorf("GetProgress = %d/%d, want 0/0 before any request", done, total)
	}
}

func TestFetchArtwork_UndecodableImageKeptRaw(t *testing.T) {
	// RIFF/WEBP container bytes; image.Decode has no decoder for them.
	raw := []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(raw)
	}))
	defer server.Close()

	settings := config.DefaultSettings()
	var warnings []string
	m := NewManager(&settings, func(e ProgressEvent) {
		if e.Level == LevelWarning {
			warnings = append(warnings, e.Message)
		}
	})

	info := &ytdlp.Info{Thumbnail: server.URL}
	got := m.fetchArtwork(context.Background(), info)
	if !bytes.Equal(got, raw) {
		t.Fatalf("fetchArtwork() = %d bytes, want the fetched bytes unchanged", len(got))
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one processing warning", warnings)
	}
}

func TestFetchArtwork_DownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	settings := config.DefaultSettings()
	m := NewManager(&settings, nil)

	info := &ytdlp.Info{Thumbnail: server.URL}
	if got := m.fetchArtwork(context.Background(), info); got != nil {
		t.Errorf("fetchArtwork() after failed download = %d bytes, want nil", len(got))
	}
}

func TestNewManagerNilCallback(t *testing.T) {
	settings := config.DefaultSettings()
	m := NewManager(&settings, nil)

	// Must not panic.
	m.progress(ProgressEvent{Message: "ignored", Level: LevelInfo})
}
