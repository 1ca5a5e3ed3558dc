package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestCategory(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.png", "image"},
		{"photo.JPG", "image"},
		{"scan.webp", "image"},
		{"notes.txt", "text"},
		{"report.md", "text"},
		{"data.csv", "text"},
		{"archive.zip", "unknown"},
		{"noext", "unknown"},
	}
	for _, tt := range tests {
		if got := Category(tt.path); got != tt.want {
			t.Errorf("Category(%q): got %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.txt", "hello")

	if err := Validate(good); err != nil {
		t.Errorf("valid file rejected: %v", err)
	}
	if err := Validate(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("missing file accepted")
	}
	if err := Validate(dir); err == nil {
		t.Error("directory accepted")
	}
	unsupported := writeFile(t, dir, "a.zip", "data")
	if err := Validate(unsupported); err == nil {
		t.Error("unsupported extension accepted")
	}
}

func TestValidateAll(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.txt", "hello")
	bad := filepath.Join(dir, "missing.txt")

	valid, failures := ValidateAll([]string{good, bad})
	if len(valid) != 1 || valid[0] != good {
		t.Errorf("valid: got %v", valid)
	}
	if len(failures) != 1 || failures[0].Path != bad {
		t.Errorf("failures: got %v", failures)
	}
}

func TestConsistent(t *testing.T) {
	ok, cat := Consistent([]string{"a.png", "b.jpg"})
	if !ok || cat != "image" {
		t.Errorf("all images: got %v %q", ok, cat)
	}
	ok, cat = Consistent([]string{"a.txt", "b.md"})
	if !ok || cat != "text" {
		t.Errorf("all text: got %v %q", ok, cat)
	}
	ok, cat = Consistent([]string{"a.png", "b.txt"})
	if ok || cat != "mixed" {
		t.Errorf("mixed: got %v %q", ok, cat)
	}
	ok, _ = Consistent(nil)
	if ok {
		t.Error("empty list should not be consistent")
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.png", "x")
	writeFile(t, dir, "a.png", "x")
	writeFile(t, dir, "notes.txt", "x")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := ScanDir(dir, "image")
	if err != nil {
		t.Fatalf("ScanDir failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	// Sorted by name.
	if filepath.Base(paths[0]) != "a.png" || filepath.Base(paths[1]) != "b.png" {
		t.Errorf("order: got %v", paths)
	}
}

func TestUniqueName(t *testing.T) {
	dir := t.TempDir()
	fresh := filepath.Join(dir, "out.png")
	if got := UniqueName(fresh); got != fresh {
		t.Errorf("fresh path renamed to %s", got)
	}

	writeFile(t, dir, "out.png", "x")
	got := UniqueName(fresh)
	if got != filepath.Join(dir, "out_1.png") {
		t.Errorf("first collision: got %s", got)
	}

	writeFile(t, dir, "out_1.png", "x")
	got = UniqueName(fresh)
	if got != filepath.Join(dir, "out_2.png") {
		t.Errorf("second collision: got %s", got)
	}
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "out.txt", "original")

	backup, err := Backup(path)
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if !strings.Contains(backup, "out_backup_") {
		t.Errorf("backup name: got %s", backup)
	}
	data, err := os.ReadFile(backup)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original" {
		t.Errorf("backup content: got %q", data)
	}

	// No backup for a file that does not exist.
	backup, err = Backup(filepath.Join(dir, "missing.txt"))
	if err != nil || backup != "" {
		t.Errorf("missing file: got %q, %v", backup, err)
	}
}

func TestCollect_Copy(t *testing.T) {
	dir := t.TempDir()
	src1 := writeFile(t, dir, "a.txt", "alpha")
	src2 := writeFile(t, dir, "b.txt", "beta")
	dest := filepath.Join(dir, "collected")

	result, err := Collect([]string{src1, src2}, dest, false)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if result.Collected != 2 || result.Moved {
		t.Errorf("result: %+v", result)
	}

	data, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	if err != nil || string(data) != "alpha" {
		t.Errorf("copied content: %q, %v", data, err)
	}
	// Originals still in place.
	if _, err := os.Stat(src1); err != nil {
		t.Error("copy removed the original")
	}
}

func TestCollect_Move(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "alpha")
	dest := filepath.Join(dir, "collected")

	result, err := Collect([]string{src}, dest, true)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if result.Collected != 1 || !result.Moved {
		t.Errorf("result: %+v", result)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("move left the original behind")
	}
	if _, err := os.Stat(filepath.Join(dest, "a.txt")); err != nil {
		t.Error("moved file not in destination")
	}
}

func TestCollect_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.txt", "alpha")
	missing := filepath.Join(dir, "missing.txt")
	dest := filepath.Join(dir, "collected")

	result, err := Collect([]string{good, missing}, dest, false)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if result.Collected != 1 {
		t.Errorf("collected: got %d, want 1", result.Collected)
	}
	if len(result.Failures) != 1 || result.Failures[0].Path != missing {
		t.Errorf("failures: got %v", result.Failures)
	}
}

func TestStat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.png", "12345")

	info, err := Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Name != "a.png" || info.Size != 5 || info.Category != "image" {
		t.Errorf("info: %+v", info)
	}
}
