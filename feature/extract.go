package feature

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	// Registered image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Shape is the pixel geometry of a vector.
type Shape struct {
	Width  int
	Height int
}

// Len returns the number of features of the shape.
func (s Shape) Len() int { return s.Width * s.Height }

func (s Shape) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Vector is the feature representation of one image.
type Vector struct {
	Shape
	Values []float64
}

// Extractor converts raw image bytes into a Vector.
type Extractor interface {
	// Shape returns the shape Extract would produce without decoding
	// the pixel data.
	Shape(raw []byte) (Shape, error)
	Extract(raw []byte) (Vector, error)
}

// AlphaExtractor selects the alpha channel of an image.
type AlphaExtractor struct{}

var _ Extractor = AlphaExtractor{}

// Shape implements Extractor.
func (AlphaExtractor) Shape(raw []byte) (Shape, error) {
	return ReadShape(raw)
}

// Extract implements Extractor.
func (AlphaExtractor) Extract(raw []byte) (Vector, error) {
	return Extract(raw)
}

// ReadShape reads the image header of raw. Color models that cannot carry
// alpha are rejected here already.
func ReadShape(raw []byte) (Shape, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Shape{}, &DecodeError{Err: err}
	}
	shape := Shape{Width: cfg.Width, Height: cfg.Height}
	if shape.Width <= 0 || shape.Height <= 0 {
		return Shape{}, &DecodeError{Format: format, Err: ErrEmptyImage}
	}
	switch cfg.ColorModel {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return Shape{}, &DecodeError{Format: format, Err: ErrNoAlphaChannel}
	}
	return shape, nil
}

// Extract decodes raw and returns its alpha channel as a vector.
func Extract(raw []byte) (Vector, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Vector{}, &DecodeError{Err: err}
	}

	b := img.Bounds()
	shape := Shape{Width: b.Dx(), Height: b.Dy()}
	if shape.Width <= 0 || shape.Height <= 0 {
		return Vector{}, &DecodeError{Format: format, Err: ErrEmptyImage}
	}
	if !hasAlpha(img, format) {
		return Vector{}, &DecodeError{Format: format, Err: ErrNoAlphaChannel}
	}

	return Vector{Shape: shape, Values: alpha(img)}, nil
}

// hasAlpha reports whether the decoded image carries a real alpha channel.
func hasAlpha(img image.Image, format string) bool {
	switch src := img.(type) {
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	case *image.Paletted:
		for _, c := range src.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	case *image.RGBA:
		// The PNG decoder only picks RGBA for truecolor images without
		// alpha. Other decoders also use it for opaque RGB.
		return format != "png" && !src.Opaque()
	case *image.RGBA64:
		return format != "png" && !src.Opaque()
	}

	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	return true
}

func alpha(img image.Image) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, 0, w*h)

	switch src := img.(type) {
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := src.PixOffset(b.Min.X, y)
			for x := 0; x < w; x++ {
				out = append(out, float64(src.Pix[off+4*x+3]))
			}
		}
	case *image.RGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := src.PixOffset(b.Min.X, y)
			for x := 0; x < w; x++ {
				out = append(out, float64(src.Pix[off+4*x+3]))
			}
		}
	case *image.Alpha:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := src.PixOffset(b.Min.X, y)
			for x := 0; x < w; x++ {
				out = append(out, float64(src.Pix[off+x]))
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				out = append(out, float64(c.A))
			}
		}
	}
	return out
}
