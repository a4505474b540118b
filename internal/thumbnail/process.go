package thumbnail

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

const (
	// TargetSize is the edge length of the processed square cover.
	TargetSize = 1000

	// jpegQuality is the encoder quality for processed covers.
	jpegQuality = 95

	// barLuminance is the mean luminance (0-255) below which a border row
	// or column counts as part of a letterbox bar.
	barLuminance = 25

	// minBarFraction is the minimum bar size, relative to the image
	// dimension, before cropping is worth doing.
	minBarFraction = 0.05

	// Fixed enhancement parameters. These are deterministic so that
	// processing the same input always yields the same bytes.
	sharpenAmount    = 1.2
	sharpenThreshold = 3
	contrastFactor   = 1.10
	saturationFactor = 1.05
)

// Processor turns a raw thumbnail into a square, enhanced JPEG cover.
//
// The pipeline is:
//  1. decode (JPEG or PNG)
//  2. crop uniform letterbox bars along the edges
//  3. center-crop to a square aspect ratio
//  4. resize to the configured square size (Catmull-Rom)
//  5. fixed sharpen/contrast/saturation adjustment
//  6. encode as JPEG at high quality
//
// The output format is always JPEG, which every supported tag container can
// embed. Process performs no I/O beyond the byte slices it is given.
type Processor struct {
	targetSize int
}

// NewProcessor creates a Processor producing size × size covers.
// A size of zero or less falls back to TargetSize.
func NewProcessor(size int) *Processor {
	if size <= 0 {
		size = TargetSize
	}
	return &Processor{targetSize: size}
}

// Process converts raw image bytes into processed square cover bytes.
//
// An already square image of the target size keeps its dimensions: no
// further cropping or scaling is applied, only the fixed enhancement pass
// and re-encoding.
func (p *Processor) Process(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	img := toRGBA(src)
	img = cropLetterbox(img)
	img = squareCrop(img)

	if img.Bounds().Dx() != p.targetSize {
		dst := image.NewRGBA(image.Rect(0, 0, p.targetSize, p.targetSize))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = dst
	}

	img = enhance(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toRGBA copies an image into an RGBA buffer anchored at the origin.
func toRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// cropLetterbox removes uniform dark bars along the image edges.
//
// A row or column belongs to a bar when its mean luminance is below
// barLuminance. Cropping only happens when the detected bar exceeds
// minBarFraction of the corresponding dimension, so ordinary dark imagery
// is left alone.
func cropLetterbox(img *image.RGBA) *image.RGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w == 0 || h == 0 {
		return img
	}

	rowMeans := make([]float64, h)
	colSums := make([]float64, w)
	for y := 0; y < h; y++ {
		var rowSum float64
		for x := 0; x < w; x++ {
			l := luminance(img, x, y)
			rowSum += l
			colSums[x] += l
		}
		rowMeans[y] = rowSum / float64(w)
	}

	top, bottom := contentRange(rowMeans)
	left, right := contentRangeSums(colSums, float64(h))
	if top < 0 || left < 0 {
		// Entirely dark image, nothing sensible to crop.
		return img
	}

	significant := float64(top) > float64(h)*minBarFraction ||
		float64(h-1-bottom) > float64(h)*minBarFraction ||
		float64(left) > float64(w)*minBarFraction ||
		float64(w-1-right) > float64(w)*minBarFraction
	if !significant {
		return img
	}

	return crop(img, image.Rect(left, top, right+1, bottom+1))
}

// squareCrop center-crops the longer dimension down to a square.
// Padding is never added; a square input is returned unchanged.
func squareCrop(img *image.RGBA) *image.RGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w == h {
		return img
	}

	size := w
	if h < w {
		size = h
	}
	left := (w - size) / 2
	top := (h - size) / 2
	return crop(img, image.Rect(left, top, left+size, top+size))
}

// enhance applies the fixed sharpen, contrast and saturation pass.
func enhance(img *image.RGBA) *image.RGBA {
	img = unsharpMask(img)

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			r := float64(img.Pix[i])
			g := float64(img.Pix[i+1])
			b := float64(img.Pix[i+2])

			// Contrast around the midpoint.
			r = (r-128)*contrastFactor + 128
			g = (g-128)*contrastFactor + 128
			b = (b-128)*contrastFactor + 128

			// Saturation around the pixel's luma.
			l := 0.299*r + 0.587*g + 0.114*b
			r = l + (r-l)*saturationFactor
			g = l + (g-l)*saturationFactor
			b = l + (b-l)*saturationFactor

			o := out.PixOffset(x, y)
			out.Pix[o] = clamp8(r)
			out.Pix[o+1] = clamp8(g)
			out.Pix[o+2] = clamp8(b)
			out.Pix[o+3] = img.Pix[i+3]
		}
	}
	return out
}

// unsharpMask sharpens by subtracting a small gaussian blur. Differences
// below sharpenThreshold are left untouched to avoid amplifying noise.
func unsharpMask(img *image.RGBA) *image.RGBA {
	blurred := gaussianBlur3(img)
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				orig := float64(img.Pix[i+c])
				diff := orig - float64(blurred.Pix[i+c])
				if diff > sharpenThreshold || diff < -sharpenThreshold {
					out.Pix[i+c] = clamp8(orig + diff*sharpenAmount)
				} else {
					out.Pix[i+c] = img.Pix[i+c]
				}
			}
			out.Pix[i+3] = img.Pix[i+3]
		}
	}
	return out
}

// gaussianBlur3 applies a separable 3-tap [1 2 1] gaussian kernel.
func gaussianBlur3(img *image.RGBA) *image.RGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	tmp := image.NewRGBA(image.Rect(0, 0, w, h))
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	// Horizontal pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			xl, xr := clampIndex(x-1, w), clampIndex(x+1, w)
			for c := 0; c < 4; c++ {
				sum := uint32(img.Pix[img.PixOffset(xl, y)+c]) +
					2*uint32(img.Pix[img.PixOffset(x, y)+c]) +
					uint32(img.Pix[img.PixOffset(xr, y)+c])
				tmp.Pix[tmp.PixOffset(x, y)+c] = uint8(sum / 4)
			}
		}
	}

	// Vertical pass.
	for y := 0; y < h; y++ {
		yu, yd := clampIndex(y-1, h), clampIndex(y+1, h)
		for x := 0; x < w; x++ {
			for c := 0; c < 4; c++ {
				sum := uint32(tmp.Pix[tmp.PixOffset(x, yu)+c]) +
					2*uint32(tmp.Pix[tmp.PixOffset(x, y)+c]) +
					uint32(tmp.Pix[tmp.PixOffset(x, yd)+c])
				out.Pix[out.PixOffset(x, y)+c] = uint8(sum / 4)
			}
		}
	}
	return out
}

// contentRange returns the first and last index whose mean is above the
// bar threshold, or (-1, -1) when none is.
func contentRange(means []float64) (first, last int) {
	first, last = -1, -1
	for i, m := range means {
		if m > barLuminance {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last
}

func contentRangeSums(sums []float64, divisor float64) (first, last int) {
	means := make([]float64, len(sums))
	for i, s := range sums {
		means[i] = s / divisor
	}
	return contentRange(means)
}

func crop(img *image.RGBA, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}

func luminance(img *image.RGBA, x, y int) float64 {
	i := img.PixOffset(x, y)
	return 0.299*float64(img.Pix[i]) + 0.587*float64(img.Pix[i+1]) + 0.114*float64(img.Pix[i+2])
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
