package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Failure records a per-file error that did not abort a batch operation.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tiff": true, ".tif": true, ".webp": true,
}

var textExts = map[string]bool{
	".txt": true, ".md": true, ".log": true, ".csv": true, ".json": true,
}

// Category classifies a path by extension: "image", "text" or "unknown".
func Category(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExts[ext]:
		return "image"
	case textExts[ext]:
		return "text"
	default:
		return "unknown"
	}
}

// Validate checks that path names an existing, readable, supported file.
func Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}
	if Category(path) == "unknown" {
		return fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	f.Close()
	return nil
}

// ValidateAll splits paths into valid ones and failures, preserving order.
func ValidateAll(paths []string) ([]string, []Failure) {
	valid := make([]string, 0, len(paths))
	var failures []Failure
	for _, p := range paths {
		if err := Validate(p); err != nil {
			failures = append(failures, Failure{Path: p, Reason: err.Error()})
		} else {
			valid = append(valid, p)
		}
	}
	return valid, failures
}

// Consistent reports whether every path falls in the same category and
// returns that category ("mixed" otherwise).
func Consistent(paths []string) (bool, string) {
	if len(paths) == 0 {
		return false, "unknown"
	}
	category := Category(paths[0])
	for _, p := range paths[1:] {
		if Category(p) != category {
			return false, "mixed"
		}
	}
	return true, category
}

// Info describes one selected file for display.
type Info struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Category string    `json:"category"`
}

// Stat returns display information for a file.
func Stat(path string) (*Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Info{
		Name:     filepath.Base(path),
		Path:     abs,
		Size:     st.Size(),
		Modified: st.ModTime(),
		Category: Category(path),
	}, nil
}

// ScanDir lists the files of the given category directly inside dir, sorted
// by name. It does not recurse.
func ScanDir(dir, category string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if Category(p) == category {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// UniqueName returns path unchanged if nothing exists there, otherwise the
// first "name_N.ext" variant that is free.
func UniqueName(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// Backup copies an existing file to a timestamped sibling before it gets
// overwritten. It returns the backup path, or "" when path does not exist.
func Backup(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", nil
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	backup := fmt.Sprintf("%s_backup_%s%s", stem, time.Now().Format("20060102_150405"), ext)
	if err := copyFile(path, backup); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return backup, nil
}

// CollectResult reports the outcome of copying or moving files into a folder.
type CollectResult struct {
	// Dir is the destination directory.
	Dir string `json:"dir"`

	// Collected is the number of files placed in Dir.
	Collected int `json:"collected"`

	// Moved is true when the originals were removed.
	Moved bool `json:"moved"`

	// Failures lists every file that could not be collected and why.
	Failures []Failure `json:"failures,omitempty"`
}

// Collect copies (or, with move set, moves) the given files into destDir,
// creating the directory as needed. Per-file errors are recorded and the
// batch continues; only an unusable destination aborts.
func Collect(paths []string, destDir string, move bool) (*CollectResult, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination folder: %w", err)
	}

	result := &CollectResult{Dir: destDir, Moved: move}
	for _, src := range paths {
		dst := filepath.Join(destDir, filepath.Base(src))
		var err error
		if move {
			err = moveFile(src, dst)
		} else {
			err = copyFile(src, dst)
		}
		if err != nil {
			result.Failures = append(result.Failures, Failure{Path: src, Reason: err.Error()})
			continue
		}
		result.Collected++
	}
	return result, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// moveFile renames when possible and falls back to copy+remove across
// filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
