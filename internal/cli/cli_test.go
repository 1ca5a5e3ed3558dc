package cli

import (
	"bytes"
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

// runSession feeds the menu loop a scripted set of answers and returns the
// transcript.
func runSession(t *testing.T, answers []string) string {
	t.Helper()
	var out bytes.Buffer
	app := NewWithIO(strings.NewReader(strings.Join(answers, "\n")+"\n"), &out)
	if err := app.Run(); err != nil {
		t.Fatalf("Run failed: %v\ntranscript:\n%s", err, out.String())
	}
	return out.String()
}

func TestRun_TextMergeSession(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "one.txt", "alpha\n")
	p2 := writeFile(t, dir, "two.txt", "beta\n")
	out := filepath.Join(dir, "merged.txt")

	transcript := runSession(t, []string{
		"1",  // add files
		p1,   //
		p2,   //
		"",   // done adding
		"4",  // process & merge
		"",   // mode: merge (default)
		"",   // format: txt (default)
		"",   // separator: simple (default)
		"",   // line numbers: n
		"",   // timestamps: n
		"",   // strip whitespace: n
		out,  // output filename
		"0",  // exit
	})

	if !strings.Contains(transcript, "Done: 2 files merged") {
		t.Errorf("merge not reported:\n%s", transcript)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if !strings.Contains(string(data), "alpha") || !strings.Contains(string(data), "beta") {
		t.Errorf("merged content wrong:\n%s", data)
	}
}

func TestRun_CollectSession(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "one.txt", "alpha\n")
	dest := filepath.Join(dir, "collected")

	transcript := runSession(t, []string{
		"1",  // add files
		p1,   //
		"",   // done adding
		"4",  // process & merge
		"2",  // mode: collect
		"",   // copy (default)
		dest, // destination folder
		"0",  // exit
	})

	if !strings.Contains(transcript, "1 files copied") {
		t.Errorf("collect not reported:\n%s", transcript)
	}
	if _, err := os.Stat(filepath.Join(dest, "one.txt")); err != nil {
		t.Errorf("collected file missing: %v", err)
	}
}

func TestRun_RejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.txt")

	transcript := runSession(t, []string{
		"1",     // add files
		missing, //
		"",      // done adding
		"0",     // exit
	})

	if !strings.Contains(transcript, "error:") {
		t.Errorf("invalid file not rejected:\n%s", transcript)
	}
	if !strings.Contains(transcript, "Total files selected: 0") {
		t.Errorf("invalid file was added:\n%s", transcript)
	}
}

func TestRun_MixedTypesRefused(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "a.txt", "x")
	img := writeFile(t, dir, "b.png", "not really a png but categorized by extension")

	transcript := runSession(t, []string{
		"1", txt, img, "",
		"4",
		"0",
	})

	if !strings.Contains(transcript, "Mixed file types") {
		t.Errorf("mixed selection not refused:\n%s", transcript)
	}
}

func TestRun_ExitsOnEOF(t *testing.T) {
	var out bytes.Buffer
	app := NewWithIO(strings.NewReader(""), &out)
	if err := app.Run(); err != nil {
		t.Fatalf("Run on EOF failed: %v", err)
	}
}
