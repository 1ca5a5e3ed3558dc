package imaging

import (
	"fmt"
	"math"
)

// LayoutMode selects how cells are arranged on the canvas.
type LayoutMode int

const (
	// LayoutVertical stacks images top to bottom.
	LayoutVertical LayoutMode = iota
	// LayoutHorizontal places images left to right.
	LayoutHorizontal
	// LayoutGrid fills a rectangular grid row-major with equal-sized cells.
	LayoutGrid
)

// String returns the mode name as used in configuration.
func (m LayoutMode) String() string {
	switch m {
	case LayoutVertical:
		return "vertical"
	case LayoutHorizontal:
		return "horizontal"
	case LayoutGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// ParseLayoutMode converts a configuration string to a LayoutMode.
func ParseLayoutMode(s string) (LayoutMode, error) {
	switch s {
	case "vertical":
		return LayoutVertical, nil
	case "horizontal":
		return LayoutHorizontal, nil
	case "grid":
		return LayoutGrid, nil
	default:
		return 0, fmt.Errorf("unknown layout mode: %q", s)
	}
}

// Alignment positions a cell along the cross axis of a strip layout:
// top/center/bottom for horizontal strips, left/center/right for vertical.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

// ParseAlignment converts a configuration string to an Alignment.
// Both axis namings are accepted ("top"/"left" = start, "bottom"/"right" = end).
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "start", "top", "left":
		return AlignStart, nil
	case "center", "centre":
		return AlignCenter, nil
	case "end", "bottom", "right":
		return AlignEnd, nil
	default:
		return 0, fmt.Errorf("unknown alignment: %q", s)
	}
}

// Rect is a placement rectangle within the canvas.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Dimensions is the size of one input image as seen by the planner.
// The planner never touches pixel data.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PlacementPlan assigns every input image a target rectangle on the canvas.
//
// Invariants: len(Cells) equals the input count, no two cells overlap, and
// every cell lies within the canvas bounds.
type PlacementPlan struct {
	CanvasWidth  int    `json:"canvas_width"`
	CanvasHeight int    `json:"canvas_height"`
	Cells        []Rect `json:"cells"`
}

// LayoutOptions configures the planner.
type LayoutOptions struct {
	// Mode selects the arrangement.
	Mode LayoutMode

	// Columns is the grid column count; 0 selects ceil(sqrt(N)) automatically.
	// Ignored outside LayoutGrid.
	Columns int

	// Spacing is the gap between adjacent cells, in pixels.
	Spacing int

	// Padding is the border around the whole arrangement, in pixels.
	Padding int

	// Align positions cells along the cross axis of strip layouts.
	Align Alignment

	// CellWidth and CellHeight force a uniform cell size for every image.
	// When zero, strip layouts use each image's natural size and the grid
	// uses the maximum width and height across all inputs.
	CellWidth  int
	CellHeight int
}

// LayoutError reports an invalid layout configuration. It is fatal: unlike
// per-file decode failures it aborts the whole merge.
type LayoutError struct {
	Reason string
}

func (e *LayoutError) Error() string {
	return "invalid layout: " + e.Reason
}

// PlanLayout computes the canvas size and per-image placement rectangles for
// the given input dimensions. It is pure geometry and can be tested without
// any pixel data.
func PlanLayout(dims []Dimensions, opts LayoutOptions) (*PlacementPlan, error) {
	if err := validateLayout(dims, opts); err != nil {
		return nil, err
	}

	cells := cellSizes(dims, opts)

	switch opts.Mode {
	case LayoutHorizontal:
		return planHorizontal(cells, opts), nil
	case LayoutVertical:
		return planVertical(cells, opts), nil
	case LayoutGrid:
		return planGrid(cells, opts), nil
	default:
		return nil, &LayoutError{Reason: fmt.Sprintf("unknown mode %d", opts.Mode)}
	}
}

func validateLayout(dims []Dimensions, opts LayoutOptions) error {
	if len(dims) == 0 {
		return &LayoutError{Reason: "no input dimensions"}
	}
	if err := validateOptions(opts); err != nil {
		return err
	}
	for _, d := range dims {
		if d.Width <= 0 || d.Height <= 0 {
			return &LayoutError{Reason: fmt.Sprintf("non-positive image size %dx%d", d.Width, d.Height)}
		}
	}
	return nil
}

// validateOptions checks the parts of the configuration that do not depend
// on the input images, so callers can reject bad settings before any I/O.
func validateOptions(opts LayoutOptions) error {
	if opts.Spacing < 0 {
		return &LayoutError{Reason: fmt.Sprintf("negative spacing %d", opts.Spacing)}
	}
	if opts.Padding < 0 {
		return &LayoutError{Reason: fmt.Sprintf("negative padding %d", opts.Padding)}
	}
	if opts.Columns < 0 {
		return &LayoutError{Reason: fmt.Sprintf("negative column count %d", opts.Columns)}
	}
	if opts.CellWidth < 0 || opts.CellHeight < 0 {
		return &LayoutError{Reason: "negative cell size"}
	}
	if (opts.CellWidth == 0) != (opts.CellHeight == 0) {
		return &LayoutError{Reason: "cell width and height must be set together"}
	}
	return nil
}

// cellSizes resolves the target size of every cell before placement.
//
// Grid cells are always uniform at (max width, max height) across all inputs.
// That discards aspect information for smaller images, but it guarantees a
// rectangular grid without per-row size negotiation and matches the visible
// output users expect from this tool.
func cellSizes(dims []Dimensions, opts LayoutOptions) []Dimensions {
	cells := make([]Dimensions, len(dims))

	if opts.CellWidth > 0 {
		for i := range cells {
			cells[i] = Dimensions{Width: opts.CellWidth, Height: opts.CellHeight}
		}
		return cells
	}

	if opts.Mode == LayoutGrid {
		maxW, maxH := 0, 0
		for _, d := range dims {
			if d.Width > maxW {
				maxW = d.Width
			}
			if d.Height > maxH {
				maxH = d.Height
			}
		}
		for i := range cells {
			cells[i] = Dimensions{Width: maxW, Height: maxH}
		}
		return cells
	}

	copy(cells, dims)
	return cells
}

func planHorizontal(cells []Dimensions, opts LayoutOptions) *PlacementPlan {
	maxH, sumW := 0, 0
	for _, c := range cells {
		if c.Height > maxH {
			maxH = c.Height
		}
		sumW += c.Width
	}

	plan := &PlacementPlan{
		CanvasWidth:  sumW + (len(cells)-1)*opts.Spacing + 2*opts.Padding,
		CanvasHeight: maxH + 2*opts.Padding,
		Cells:        make([]Rect, len(cells)),
	}

	x := opts.Padding
	for i, c := range cells {
		y := opts.Padding + alignOffset(maxH-c.Height, opts.Align)
		plan.Cells[i] = Rect{X: x, Y: y, W: c.Width, H: c.Height}
		x += c.Width + opts.Spacing
	}
	return plan
}

func planVertical(cells []Dimensions, opts LayoutOptions) *PlacementPlan {
	maxW, sumH := 0, 0
	for _, c := range cells {
		if c.Width > maxW {
			maxW = c.Width
		}
		sumH += c.Height
	}

	plan := &PlacementPlan{
		CanvasWidth:  maxW + 2*opts.Padding,
		CanvasHeight: sumH + (len(cells)-1)*opts.Spacing + 2*opts.Padding,
		Cells:        make([]Rect, len(cells)),
	}

	y := opts.Padding
	for i, c := range cells {
		x := opts.Padding + alignOffset(maxW-c.Width, opts.Align)
		plan.Cells[i] = Rect{X: x, Y: y, W: c.Width, H: c.Height}
		y += c.Height + opts.Spacing
	}
	return plan
}

func planGrid(cells []Dimensions, opts LayoutOptions) *PlacementPlan {
	n := len(cells)
	cols := opts.Columns
	if cols == 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	rows := (n + cols - 1) / cols

	// All grid cells share one size; see cellSizes.
	cellW, cellH := cells[0].Width, cells[0].Height

	plan := &PlacementPlan{
		CanvasWidth:  cols*cellW + (cols-1)*opts.Spacing + 2*opts.Padding,
		CanvasHeight: rows*cellH + (rows-1)*opts.Spacing + 2*opts.Padding,
		Cells:        make([]Rect, n),
	}

	for i := 0; i < n; i++ {
		row, col := i/cols, i%cols
		plan.Cells[i] = Rect{
			X: opts.Padding + col*(cellW+opts.Spacing),
			Y: opts.Padding + row*(cellH+opts.Spacing),
			W: cellW,
			H: cellH,
		}
	}
	return plan
}

// alignOffset distributes slack space along the cross axis.
func alignOffset(slack int, align Alignment) int {
	switch align {
	case AlignCenter:
		return slack / 2
	case AlignEnd:
		return slack
	default:
		return 0
	}
}
