package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder (decode only)
)

// SourceImage is a successfully decoded input image.
//
// The raster is owned by the pipeline stage currently processing it; the
// loader hands it to the transformer and does not retain a reference.
type SourceImage struct {
	// Path is the file the image was decoded from.
	Path string `json:"path"`

	// Image is the decoded raster.
	Image image.Image `json:"-"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// ColorMode describes the decoded pixel layout: "rgba", "nrgba",
	// "gray", "ycbcr", "paletted" or "other".
	ColorMode string `json:"color_mode"`
}

// Failure records a per-file error that did not abort the batch.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Load opens and decodes a single image file.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. The format is
// detected from the file contents, not the extension.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}

// LoadAll decodes an ordered list of image files.
//
// Files that cannot be opened or decoded are recorded as failures and
// excluded from the returned slice; the batch continues with the remaining
// images. Input order is preserved among the survivors.
//
// onLoad, if non-nil, is called after each file has been attempted with the
// number of files processed so far and the total count.
func LoadAll(paths []string, onLoad func(path string, done, total int)) ([]SourceImage, []Failure) {
	sources := make([]SourceImage, 0, len(paths))
	var failures []Failure

	for i, path := range paths {
		img, err := Load(path)
		if err != nil {
			failures = append(failures, Failure{Path: path, Reason: err.Error()})
		} else {
			bounds := img.Bounds()
			sources = append(sources, SourceImage{
				Path:      path,
				Image:     img,
				Width:     bounds.Dx(),
				Height:    bounds.Dy(),
				ColorMode: colorMode(img),
			})
		}
		if onLoad != nil {
			onLoad(path, i+1, len(paths))
		}
	}

	return sources, failures
}

// colorMode names the concrete raster type of a decoded image.
func colorMode(img image.Image) string {
	switch img.(type) {
	case *image.RGBA, *image.RGBA64:
		return "rgba"
	case *image.NRGBA, *image.NRGBA64:
		return "nrgba"
	case *image.Gray, *image.Gray16:
		return "gray"
	case *image.YCbCr:
		return "ycbcr"
	case *image.Paletted:
		return "paletted"
	default:
		return "other"
	}
}

// ImageInfo contains metadata about an image file without holding its pixels.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the image format reported by the decoder ("png", "jpeg",
	// "gif", "bmp", "tiff", "webp").
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Probe decodes an image file and returns its metadata.
//
// The decoded raster is discarded; use Load or LoadAll when the pixels are
// needed downstream.
func Probe(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}
