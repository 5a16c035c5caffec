package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// Ink is the stroke color of generated drawings.
var Ink = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// AlphaImage returns an NRGBA image whose alpha channel equals rows.
// All rows must have the same length.
func AlphaImage(rows [][]uint8) *image.NRGBA {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y, row := range rows {
		for x, a := range row {
			img.SetNRGBA(x, y, color.NRGBA{A: a})
		}
	}
	return img
}

// Drawing returns a transparent w×h canvas with a few random opaque strokes,
// resembling what the drawing page uploads.
func (r *RNG) Drawing(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	strokes := 1 + r.Intn(4)
	for range strokes {
		x, y := r.Intn(w), r.Intn(h)
		length := 1 + r.Intn(w)
		horizontal := r.Intn(2) == 0
		for i := 0; i < length; i++ {
			if horizontal && x+i < w {
				img.SetNRGBA(x+i, y, Ink)
			} else if !horizontal && y+i < h {
				img.SetNRGBA(x, y+i, Ink)
			}
		}
	}
	return img
}

// Noise returns a w×h image with random alpha values.
func (r *RNG) Noise(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: r.Uint8(), G: r.Uint8(), B: r.Uint8(), A: r.Uint8()})
		}
	}
	return img
}

// DrawingPNG is shorthand for MustPNG(r.Drawing(w, h)).
func (r *RNG) DrawingPNG(w, h int) []byte {
	return MustPNG(r.Drawing(w, h))
}

// AlphaPNG is shorthand for MustPNG(AlphaImage(rows)).
func AlphaPNG(rows [][]uint8) []byte {
	return MustPNG(AlphaImage(rows))
}

// GrayPNG returns a w×h grayscale PNG, which has no alpha channel.
func GrayPNG(w, h int) []byte {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	return MustPNG(img)
}

// OpaquePNG returns a w×h truecolor PNG without alpha channel.
func OpaquePNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return MustPNG(img)
}

// JPEG returns a w×h baseline JPEG.
func JPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// MustPNG encodes img as PNG and panics on failure.
func MustPNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
