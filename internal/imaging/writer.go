package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Write encodes the canvas and persists it at path.
//
// The format is taken from the format argument when non-empty ("png",
// "jpeg", "gif", "bmp", "tiff", "webp") and inferred from the output
// extension otherwise. quality applies to JPEG and WebP output, 1-100;
// values outside that range fall back to 90.
//
// The encode goes to a temporary file in the target directory which is
// renamed over path only on success, so a failed encode never leaves a
// truncated output claiming to be complete.
func Write(img image.Image, path, format string, quality int) error {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	if format == "" {
		return fmt.Errorf("cannot determine output format for %q", path)
	}
	if quality < 1 || quality > 100 {
		quality = 90
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".filemerge-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()

	if err := encode(tmp, img, format, quality); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	// CreateTemp files are 0600; outputs should be world-readable.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

func encode(f *os.File, img image.Image, format string, quality int) error {
	if format == "webp" {
		if err := webp.Encode(f, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
		return nil
	}

	ifmt, err := imaging.FormatFromExtension(format)
	if err != nil {
		return fmt.Errorf("unsupported output format %q: %w", format, err)
	}
	if err := imaging.Encode(f, img, ifmt, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}
