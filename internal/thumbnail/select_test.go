package thumbnail

import (
	"errors"
	"testing"

	"github.com/ytmgrab/ytmgrab/internal/model"
)

func TestSelectBest_MaxArea(t *testing.T) {
	candidates := []model.Thumbnail{
		{ID: "sddefault", Width: 640, Height: 480},
		{ID: "maxresdefault", Width: 1920, Height: 1080},
		{ID: "hqdefault", Width: 480, Height: 360},
	}

	best, err := SelectBest(candidates, nil)
	if err != nil {
		t.Fatalf("SelectBest() error = %v", err)
	}
	if best.ID != "maxresdefault" {
		t.Errorf("SelectBest() = %q, want maxresdefault", best.ID)
	}
}

func TestSelectBest_TieBrokenByLabel(t *testing.T) {
	candidates := []model.Thumbnail{
		{ID: "sddefault", Width: 1280, Height: 720},
		{ID: "hq720", Width: 1280, Height: 720},
	}

	best, err := SelectBest(candidates, nil)
	if err != nil {
		t.Fatalf("SelectBest() error = %v", err)
	}
	if best.ID != "hq720" {
		t.Errorf("SelectBest() = %q, want hq720", best.ID)
	}
}

func TestSelectBest_LabelInURL(t *testing.T) {
	// Some extractors report labels only in the URL.
	candidates := []model.Thumbnail{
		{URL: "https://i.ytimg.com/vi/x/sddefault.jpg"},
		{URL: "https://i.ytimg.com/vi/x/maxresdefault.jpg"},
	}

	best, err := SelectBest(candidates, nil)
	if err != nil {
		t.Fatalf("SelectBest() error = %v", err)
	}
	if best.URL != "https://i.ytimg.com/vi/x/maxresdefault.jpg" {
		t.Errorf("SelectBest() = %q", best.URL)
	}
}

func TestSelectBest_SizedBeatsUnsized(t *testing.T) {
	candidates := []model.Thumbnail{
		{ID: "maxresdefault"},
		{ID: "mqdefault", Width: 320, Height: 180},
	}

	best, err := SelectBest(candidates, nil)
	if err != nil {
		t.Fatalf("SelectBest() error = %v", err)
	}
	if best.ID != "mqdefault" {
		t.Errorf("SelectBest() = %q, want the sized candidate", best.ID)
	}
}

func TestSelectBest_CustomPriority(t *testing.T) {
	candidates := []model.Thumbnail{
		{ID: "square_high"},
		{ID: "wide_high"},
	}

	best, err := SelectBest(candidates, []string{"wide_high", "square_high"})
	if err != nil {
		t.Fatalf("SelectBest() error = %v", err)
	}
	if best.ID != "wide_high" {
		t.Errorf("SelectBest() = %q", best.ID)
	}
}

func TestSelectBest_Empty(t *testing.T) {
	_, err := SelectBest(nil, nil)
	if !errors.Is(err, ErrNoThumbnail) {
		t.Errorf("SelectBest(nil) error = %v, want ErrNoThumbnail", err)
	}
}

func TestSelectBest_DoesNotMutateInput(t *testing.T) {
	candidates := []model.Thumbnail{
		{ID: "default", Width: 120, Height: 90},
		{ID: "maxresdefault", Width: 1920, Height: 1080},
	}

	if _, err := SelectBest(candidates, nil); err != nil {
		t.Fatalf("SelectBest() error = %v", err)
	}
	if candidates[0].ID != "default" {
		t.Error("SelectBest() reordered the caller's slice")
	}
}
