package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage writes a solid-color PNG into dir and returns its path.
func createTestImage(t *testing.T, dir string, name string, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// createCorruptFile writes a file that is not a decodable image.
func createCorruptFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("this is not an image"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := createTestImage(t, dir, "a.png", 100, 60, color.NRGBA{R: 255, A: 255})

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 60 {
		t.Errorf("dimensions: got %dx%d, want 100x60", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestLoad_NonExistent(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load should fail for a non-existent file")
	}
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := createCorruptFile(t, dir, "bad.png")
	if _, err := Load(path); err == nil {
		t.Error("Load should fail for a corrupt file")
	}
}

func TestLoadAll_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	good1 := createTestImage(t, dir, "one.png", 10, 10, color.NRGBA{R: 255, A: 255})
	bad := createCorruptFile(t, dir, "broken.png")
	good2 := createTestImage(t, dir, "two.png", 20, 30, color.NRGBA{G: 255, A: 255})
	missing := filepath.Join(dir, "gone.png")

	sources, failures := LoadAll([]string{good1, bad, good2, missing}, nil)

	if len(sources) != 2 {
		t.Fatalf("sources: got %d, want 2", len(sources))
	}
	// Order among survivors is preserved.
	if sources[0].Path != good1 || sources[1].Path != good2 {
		t.Errorf("order: got %s, %s", sources[0].Path, sources[1].Path)
	}
	if sources[1].Width != 20 || sources[1].Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 20x30", sources[1].Width, sources[1].Height)
	}

	if len(failures) != 2 {
		t.Fatalf("failures: got %d, want 2", len(failures))
	}
	if failures[0].Path != bad || failures[1].Path != missing {
		t.Errorf("failure attribution: got %s, %s", failures[0].Path, failures[1].Path)
	}
	for _, f := range failures {
		if f.Reason == "" {
			t.Errorf("failure for %s has no reason", f.Path)
		}
	}
}

func TestLoadAll_Progress(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		createTestImage(t, dir, "a.png", 5, 5, color.White),
		createCorruptFile(t, dir, "b.png"),
	}

	var calls int
	var lastDone, lastTotal int
	_, _ = LoadAll(paths, func(path string, done, total int) {
		calls++
		lastDone, lastTotal = done, total
	})

	// The observer fires for failures too.
	if calls != 2 {
		t.Errorf("progress calls: got %d, want 2", calls)
	}
	if lastDone != 2 || lastTotal != 2 {
		t.Errorf("final progress: got %d/%d, want 2/2", lastDone, lastTotal)
	}
}

func TestLoadAll_AllInvalid(t *testing.T) {
	dir := t.TempDir()
	sources, failures := LoadAll([]string{
		createCorruptFile(t, dir, "a.png"),
		filepath.Join(dir, "missing.png"),
	}, nil)

	if len(sources) != 0 {
		t.Errorf("sources: got %d, want 0", len(sources))
	}
	if len(failures) != 2 {
		t.Errorf("failures: got %d, want 2", len(failures))
	}
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	path := createTestImage(t, dir, "probe.png", 64, 48, color.NRGBA{B: 255, A: 255})

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Width != 64 || info.Height != 48 {
		t.Errorf("dimensions: got %dx%d, want 64x48", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %q, want png", info.Format)
	}
	if !info.HasAlpha {
		t.Error("NRGBA png should report an alpha channel")
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("file size: got %d", info.FileSizeBytes)
	}
}
