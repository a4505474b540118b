package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

// makeJPEG encodes a solid-color image with optional horizontal letterbox
// bars of barHeight pixels at top and bottom.
func makeJPEG(t *testing.T, w, h, barHeight int, fill color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y < barHeight || y >= h-barHeight {
				img.Set(x, y, color.RGBA{A: 255})
			} else {
				img.Set(x, y, fill)
			}
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestProcess_OutputIsTargetSquare(t *testing.T) {
	raw := makeJPEG(t, 1280, 720, 0, color.RGBA{R: 200, G: 120, B: 40, A: 255})

	out, err := NewProcessor(0).Process(raw)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	w, h := decodeDims(t, out)
	if w != TargetSize || h != TargetSize {
		t.Errorf("Process() dimensions = %dx%d, want %dx%d", w, h, TargetSize, TargetSize)
	}
}

func TestProcess_IdempotentDimensions(t *testing.T) {
	raw := makeJPEG(t, TargetSize, TargetSize, 0, color.RGBA{R: 90, G: 160, B: 220, A: 255})

	out, err := NewProcessor(0).Process(raw)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	w, h := decodeDims(t, out)
	if w != TargetSize || h != TargetSize {
		t.Errorf("already-square input changed dimensions: %dx%d", w, h)
	}
}

func TestProcess_CustomSize(t *testing.T) {
	raw := makeJPEG(t, 1280, 720, 0, color.RGBA{R: 60, G: 200, B: 100, A: 255})

	out, err := NewProcessor(500).Process(raw)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	w, h := decodeDims(t, out)
	if w != 500 || h != 500 {
		t.Errorf("Process() dimensions = %dx%d, want 500x500", w, h)
	}
}

func TestNewProcessor_DefaultSize(t *testing.T) {
	if got := NewProcessor(0).targetSize; got != TargetSize {
		t.Errorf("NewProcessor(0) size = %d, want %d", got, TargetSize)
	}
	if got := NewProcessor(-1).targetSize; got != TargetSize {
		t.Errorf("NewProcessor(-1) size = %d, want %d", got, TargetSize)
	}
}

func TestProcess_InvalidInput(t *testing.T) {
	if _, err := NewProcessor(0).Process([]byte("not an image")); err == nil {
		t.Error("Process() on garbage input should fail")
	}
}

func TestCropLetterbox(t *testing.T) {
	// 400x300 image with 60px black bars top and bottom: 20% each, well
	// above the 5% significance threshold.
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			if y >= 60 && y < 240 {
				img.Set(x, y, color.RGBA{R: 180, G: 180, B: 180, A: 255})
			} else {
				img.Set(x, y, color.RGBA{A: 255})
			}
		}
	}

	cropped := cropLetterbox(img)
	if got := cropped.Bounds().Dy(); got != 180 {
		t.Errorf("cropLetterbox() height = %d, want 180", got)
	}
	if got := cropped.Bounds().Dx(); got != 400 {
		t.Errorf("cropLetterbox() width = %d, want 400", got)
	}
}

func TestCropLetterbox_InsignificantBarsKept(t *testing.T) {
	// 2px bars on a 400x300 image are under the 5% threshold.
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			if y >= 2 && y < 298 {
				img.Set(x, y, color.RGBA{R: 180, G: 180, B: 180, A: 255})
			} else {
				img.Set(x, y, color.RGBA{A: 255})
			}
		}
	}

	cropped := cropLetterbox(img)
	if got := cropped.Bounds().Dy(); got != 300 {
		t.Errorf("cropLetterbox() height = %d, want 300 (untouched)", got)
	}
}

func TestCropLetterbox_AllDark(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	cropped := cropLetterbox(img)
	if cropped.Bounds().Dx() != 100 || cropped.Bounds().Dy() != 100 {
		t.Error("fully dark image should be returned unchanged")
	}
}

func TestSquareCrop(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want int
	}{
		{"wide", 1920, 1080, 1080},
		{"tall", 600, 800, 600},
		{"already square", 500, 500, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			out := squareCrop(img)
			if out.Bounds().Dx() != tt.want || out.Bounds().Dy() != tt.want {
				t.Errorf("squareCrop(%dx%d) = %dx%d, want %dx%d",
					tt.w, tt.h, out.Bounds().Dx(), out.Bounds().Dy(), tt.want, tt.want)
			}
		})
	}
}

func TestEnhance_Deterministic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 5), B: 128, A: 255})
		}
	}

	a := enhance(img)
	b := enhance(img)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("enhance() must be deterministic")
	}
}
