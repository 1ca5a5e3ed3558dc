package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ResizeMode selects how a source image is fitted into its planned cell.
type ResizeMode int

const (
	// ResizeFit scales preserving aspect ratio so the whole image fits the
	// cell; the remainder is padded with the background color.
	ResizeFit ResizeMode = iota
	// ResizeFill scales preserving aspect ratio so the image covers the
	// cell; the overflow is cropped symmetrically from the center.
	ResizeFill
	// ResizeStretch scales both axes independently to the exact cell size,
	// ignoring aspect ratio.
	ResizeStretch
)

// String returns the mode name as used in configuration.
func (m ResizeMode) String() string {
	switch m {
	case ResizeFit:
		return "fit"
	case ResizeFill:
		return "fill"
	case ResizeStretch:
		return "stretch"
	default:
		return "unknown"
	}
}

// ParseResizeMode converts a configuration string to a ResizeMode.
func ParseResizeMode(s string) (ResizeMode, error) {
	switch s {
	case "fit":
		return ResizeFit, nil
	case "fill":
		return ResizeFill, nil
	case "stretch":
		return ResizeStretch, nil
	default:
		return 0, fmt.Errorf("unknown resize mode: %q", s)
	}
}

// Transform produces a raster of exactly w by h pixels from src according to
// the resize mode. Scaling uses Lanczos resampling; dimension math rounds to
// the nearest whole pixel.
func Transform(src image.Image, w, h int, mode ResizeMode, bg color.Color) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("non-positive target size %dx%d", w, h)
	}

	bounds := src.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()
	if sw == 0 || sh == 0 {
		return nil, fmt.Errorf("empty source image")
	}

	// Already the right size: no resampling pass, just normalize the format.
	if sw == w && sh == h {
		return imaging.Clone(src), nil
	}

	switch mode {
	case ResizeFit:
		scale := math.Min(float64(w)/float64(sw), float64(h)/float64(sh))
		tw := int(math.Round(float64(sw) * scale))
		th := int(math.Round(float64(sh) * scale))
		if tw < 1 {
			tw = 1
		}
		if th < 1 {
			th = 1
		}
		scaled := imaging.Resize(src, tw, th, imaging.Lanczos)
		canvas := imaging.New(w, h, bg)
		return imaging.PasteCenter(canvas, scaled), nil

	case ResizeFill:
		return imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos), nil

	case ResizeStretch:
		return imaging.Resize(src, w, h, imaging.Lanczos), nil

	default:
		return nil, fmt.Errorf("unknown resize mode %d", mode)
	}
}
