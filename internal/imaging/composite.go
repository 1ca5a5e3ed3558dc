package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Effect is one of the post-composite canvas filters. The set is closed;
// filters are applied in the order the caller lists them.
type Effect int

const (
	EffectGrayscale Effect = iota
	EffectSepia
	EffectBlur
	EffectSharpen
)

// String returns the effect name as used in configuration.
func (e Effect) String() string {
	switch e {
	case EffectGrayscale:
		return "grayscale"
	case EffectSepia:
		return "sepia"
	case EffectBlur:
		return "blur"
	case EffectSharpen:
		return "sharpen"
	default:
		return "unknown"
	}
}

// ParseEffect converts a configuration string to an Effect.
func ParseEffect(s string) (Effect, error) {
	switch s {
	case "grayscale":
		return EffectGrayscale, nil
	case "sepia":
		return EffectSepia, nil
	case "blur":
		return EffectBlur, nil
	case "sharpen":
		return EffectSharpen, nil
	default:
		return 0, fmt.Errorf("unknown effect: %q", s)
	}
}

// Composite allocates the canvas and pastes each tile at its planned cell.
//
// A nil tile leaves its cell showing the background; this happens when the
// transform stage recorded a failure for that input. onPaste, if non-nil, is
// called after each successful paste with the tile index.
func Composite(plan *PlacementPlan, tiles []*image.NRGBA, bg color.Color, onPaste func(i int)) (*image.NRGBA, error) {
	if len(tiles) != len(plan.Cells) {
		return nil, fmt.Errorf("tile count %d does not match plan cell count %d", len(tiles), len(plan.Cells))
	}

	canvas := imaging.New(plan.CanvasWidth, plan.CanvasHeight, bg)
	for i, tile := range tiles {
		if tile == nil {
			continue
		}
		cell := plan.Cells[i]
		canvas = imaging.Paste(canvas, tile, image.Pt(cell.X, cell.Y))
		if onPaste != nil {
			onPaste(i)
		}
	}
	return canvas, nil
}

// ApplyEffects runs the given filters over the whole canvas in order.
func ApplyEffects(canvas *image.NRGBA, effects []Effect) (*image.NRGBA, error) {
	for _, e := range effects {
		switch e {
		case EffectGrayscale:
			canvas = imaging.Grayscale(canvas)
		case EffectSepia:
			canvas = imaging.Clone(effect.Sepia(canvas))
		case EffectBlur:
			canvas = imaging.Blur(canvas, 2.5)
		case EffectSharpen:
			canvas = imaging.Sharpen(canvas, 1.0)
		default:
			return nil, fmt.Errorf("unknown effect %d", e)
		}
	}
	return canvas, nil
}

// WatermarkPosition anchors the watermark text on the canvas.
type WatermarkPosition int

const (
	WatermarkTopLeft WatermarkPosition = iota
	WatermarkTopRight
	WatermarkBottomLeft
	WatermarkBottomRight
	WatermarkCenter
)

// ParseWatermarkPosition converts a configuration string to a position.
func ParseWatermarkPosition(s string) (WatermarkPosition, error) {
	switch s {
	case "top-left":
		return WatermarkTopLeft, nil
	case "top-right":
		return WatermarkTopRight, nil
	case "bottom-left":
		return WatermarkBottomLeft, nil
	case "bottom-right":
		return WatermarkBottomRight, nil
	case "center":
		return WatermarkCenter, nil
	default:
		return 0, fmt.Errorf("unknown watermark position: %q", s)
	}
}

// Watermark describes a text overlay stamped on the finished canvas.
type Watermark struct {
	// Text is the string to render. Empty text disables the watermark.
	Text string

	// Position anchors the text on the canvas.
	Position WatermarkPosition

	// Opacity blends the text over the canvas, 0 (invisible) to 1 (solid).
	Opacity float64

	// Color is the text color. The zero value renders white.
	Color color.NRGBA
}

// watermarkMargin keeps corner-anchored text off the canvas edge.
const watermarkMargin = 10

// ApplyWatermark renders the watermark text onto the canvas.
//
// The text is drawn with the built-in 7x13 bitmap face onto a transparent
// overlay which is then blended at the configured opacity, so the canvas
// pixels under the glyphs keep their hue.
func ApplyWatermark(canvas *image.NRGBA, wm Watermark) *image.NRGBA {
	if wm.Text == "" || wm.Opacity <= 0 {
		return canvas
	}

	col := wm.Color
	if col == (color.NRGBA{}) {
		col = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	opacity := wm.Opacity
	if opacity > 1 {
		opacity = 1
	}

	face := basicfont.Face7x13
	textW := font.MeasureString(face, wm.Text).Ceil()
	metrics := face.Metrics()
	textH := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	bounds := canvas.Bounds()
	var x, y int
	switch wm.Position {
	case WatermarkTopLeft:
		x, y = watermarkMargin, watermarkMargin
	case WatermarkTopRight:
		x, y = bounds.Dx()-textW-watermarkMargin, watermarkMargin
	case WatermarkBottomLeft:
		x, y = watermarkMargin, bounds.Dy()-textH-watermarkMargin
	case WatermarkBottomRight:
		x, y = bounds.Dx()-textW-watermarkMargin, bounds.Dy()-textH-watermarkMargin
	case WatermarkCenter:
		x, y = (bounds.Dx()-textW)/2, (bounds.Dy()-textH)/2
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	overlay := image.NewNRGBA(bounds)
	d := &font.Drawer{
		Dst:  overlay,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + ascent)},
	}
	d.DrawString(wm.Text)

	return imaging.Overlay(canvas, overlay, image.Pt(0, 0), opacity)
}
