// Package imaging implements the image-merge pipeline: decoding source
// files, planning a canvas layout, fitting each image into its cell,
// compositing the canvas and writing the result.
//
// The pipeline runs strictly forward:
//
//	LoadAll -> PlanLayout -> Transform -> Composite -> Write
//
// with Merge tying the stages together. PlanLayout works purely on
// geometry and never touches pixel data, so layout behavior is testable
// without decoding a single image.
//
// # Failure model
//
// Inputs that cannot be decoded (or, in principle, transformed) are
// collected as Failure records and the batch continues with the remaining
// images; the output always attributes every skipped input. Only three
// conditions abort a merge: ErrEmptyInput when no input survives decoding,
// *LayoutError for invalid configuration, and errors persisting the output.
//
// # Coordinate system
//
// All pixel coordinates are 0-based with the origin at the top-left corner;
// X grows rightward and Y grows downward. Placement rectangles use
// half-open extents: a cell at (x, y) with size (w, h) covers columns
// x..x+w-1 and rows y..y+h-1.
//
// # Determinism
//
// Layout math is integer-only and resampling always uses the Lanczos
// filter, so merging the same inputs with the same configuration twice
// produces pixel-identical output.
package imaging
