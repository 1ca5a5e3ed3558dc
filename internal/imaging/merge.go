package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrEmptyInput indicates that none of the input paths yielded a usable
// image. Unlike per-file decode failures it aborts the merge; no output
// file is written.
var ErrEmptyInput = errors.New("no input images could be decoded")

// Stage identifies a pipeline phase for progress reporting.
type Stage int

const (
	StageLoad Stage = iota
	StageTransform
	StageComposite
	StageWrite
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageTransform:
		return "transform"
	case StageComposite:
		return "composite"
	case StageWrite:
		return "write"
	default:
		return "unknown"
	}
}

// ProgressFunc observes per-stage completion counts. It is called after each
// per-image step finishes and must not mutate pipeline state; it exists for
// progress display only.
type ProgressFunc func(stage Stage, path string, done, total int)

// Config carries every knob of a merge as an explicit value. There is no
// process-wide configuration; repeated merges with distinct Configs are
// fully independent.
type Config struct {
	// Layout selects the arrangement of images on the canvas.
	Layout LayoutMode

	// Columns is the grid column count; 0 selects ceil(sqrt(N)). Ignored
	// outside grid layout.
	Columns int

	// Resize selects how each image is fitted into its cell.
	Resize ResizeMode

	// Spacing is the gap between adjacent cells, in pixels.
	Spacing int

	// Padding is the border around the whole arrangement, in pixels.
	Padding int

	// Align positions cells along the cross axis of strip layouts.
	Align Alignment

	// CellWidth and CellHeight force a uniform cell size; zero keeps each
	// image's natural size in strip layouts. Grid cells are always uniform.
	CellWidth  int
	CellHeight int

	// Background fills canvas areas not covered by any image, including
	// fit-mode padding inside cells.
	Background color.NRGBA

	// OutputPath is where the merged image is written.
	OutputPath string

	// Format overrides the output format inferred from OutputPath's
	// extension. Empty means infer.
	Format string

	// Quality applies to JPEG and WebP output, 1-100.
	Quality int

	// Effects are applied to the whole canvas after compositing, in order.
	Effects []Effect

	// Watermark, when non-nil with non-empty text, is stamped on the
	// canvas after all effects.
	Watermark *Watermark
}

// DefaultConfig returns the settings used when the caller specifies nothing:
// vertical stacking at natural sizes on a white canvas, PNG-quality-neutral
// output at JPEG/WebP quality 90.
func DefaultConfig() Config {
	return Config{
		Layout:     LayoutVertical,
		Resize:     ResizeFit,
		Align:      AlignCenter,
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Quality:    90,
	}
}

func (c Config) layoutOptions() LayoutOptions {
	return LayoutOptions{
		Mode:       c.Layout,
		Columns:    c.Columns,
		Spacing:    c.Spacing,
		Padding:    c.Padding,
		Align:      c.Align,
		CellWidth:  c.CellWidth,
		CellHeight: c.CellHeight,
	}
}

// MergeResult reports the outcome of a merge.
type MergeResult struct {
	// OutputPath is the file the canvas was (or would have been) written to.
	OutputPath string `json:"output_path"`

	// Success is true when an output file was written.
	Success bool `json:"success"`

	// Merged is the number of input images composited onto the canvas.
	Merged int `json:"merged"`

	// CanvasWidth and CanvasHeight are the dimensions of the output, zero
	// when the merge aborted before planning.
	CanvasWidth  int `json:"canvas_width,omitempty"`
	CanvasHeight int `json:"canvas_height,omitempty"`

	// Failures lists every input that was skipped and why. Inputs are
	// never dropped silently.
	Failures []Failure `json:"failures,omitempty"`
}

// Merge runs the whole pipeline: load, plan, transform, composite, write.
//
// Per-file decode and transform failures are accumulated in the result and
// the batch continues with the remaining images. Fatal conditions abort with
// an error: ErrEmptyInput when nothing decoded, a *LayoutError for invalid
// configuration, and write errors from persisting the output. The returned
// MergeResult is non-nil in all cases.
func Merge(paths []string, cfg Config, progress ProgressFunc) (*MergeResult, error) {
	result := &MergeResult{OutputPath: cfg.OutputPath}

	if cfg.OutputPath == "" {
		return result, fmt.Errorf("output path is required")
	}
	// Reject bad settings before touching the disk.
	if err := validateOptions(cfg.layoutOptions()); err != nil {
		return result, err
	}

	sources, failures := LoadAll(paths, func(path string, done, total int) {
		if progress != nil {
			progress(StageLoad, path, done, total)
		}
	})
	result.Failures = failures
	if len(sources) == 0 {
		return result, ErrEmptyInput
	}

	dims := make([]Dimensions, len(sources))
	for i, src := range sources {
		dims[i] = Dimensions{Width: src.Width, Height: src.Height}
	}
	plan, err := PlanLayout(dims, cfg.layoutOptions())
	if err != nil {
		return result, err
	}
	result.CanvasWidth = plan.CanvasWidth
	result.CanvasHeight = plan.CanvasHeight

	tiles := make([]*image.NRGBA, len(sources))
	for i, src := range sources {
		cell := plan.Cells[i]
		tile, err := Transform(src.Image, cell.W, cell.H, cfg.Resize, cfg.Background)
		if err != nil {
			// The cell stays background-filled; the input is attributed
			// in the failure list like a decode error.
			result.Failures = append(result.Failures, Failure{Path: src.Path, Reason: err.Error()})
		} else {
			tiles[i] = tile
		}
		sources[i].Image = nil // raster ownership moves to the compositor
		if progress != nil {
			progress(StageTransform, src.Path, i+1, len(sources))
		}
	}

	canvas, err := Composite(plan, tiles, cfg.Background, func(i int) {
		if progress != nil {
			progress(StageComposite, sources[i].Path, i+1, len(sources))
		}
	})
	if err != nil {
		return result, err
	}

	canvas, err = ApplyEffects(canvas, cfg.Effects)
	if err != nil {
		return result, err
	}
	if cfg.Watermark != nil {
		canvas = ApplyWatermark(canvas, *cfg.Watermark)
	}

	if err := Write(canvas, cfg.OutputPath, cfg.Format, cfg.Quality); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", cfg.OutputPath, err)
	}
	if progress != nil {
		progress(StageWrite, cfg.OutputPath, 1, 1)
	}

	for _, t := range tiles {
		if t != nil {
			result.Merged++
		}
	}
	result.Success = true
	return result, nil
}
