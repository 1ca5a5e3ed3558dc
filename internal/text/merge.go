// Package text merges plain-text files sequentially: formatted separators
// between sources, optional line numbers and timestamps, markdown
// conversion, and aggregate statistics. There is no layout engine here;
// ordering is the only geometry.
package text

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// SeparatorStyle selects the banner written between merged files.
type SeparatorStyle int

const (
	// SeparatorSimple writes "=== name ===".
	SeparatorSimple SeparatorStyle = iota
	// SeparatorFancy writes a boxed banner.
	SeparatorFancy
	// SeparatorMinimal writes "--- name ---".
	SeparatorMinimal
	// SeparatorNone writes nothing between files.
	SeparatorNone
)

// ParseSeparatorStyle converts a configuration string to a SeparatorStyle.
func ParseSeparatorStyle(s string) (SeparatorStyle, error) {
	switch s {
	case "simple":
		return SeparatorSimple, nil
	case "fancy":
		return SeparatorFancy, nil
	case "minimal":
		return SeparatorMinimal, nil
	case "none":
		return SeparatorNone, nil
	default:
		return 0, fmt.Errorf("unknown separator style: %q", s)
	}
}

// Options configures a text merge.
type Options struct {
	// Separator selects the banner between files.
	Separator SeparatorStyle

	// LineNumbers prefixes every content line with its number within its
	// source file.
	LineNumbers bool

	// Timestamps adds each source file's modification time to its banner.
	Timestamps bool

	// StripWhitespace trims trailing whitespace from every line and
	// leading/trailing blank lines from every file.
	StripWhitespace bool
}

// Failure records a per-file error that did not abort the merge.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result reports the outcome of a text merge.
type Result struct {
	OutputPath string    `json:"output_path"`
	Success    bool      `json:"success"`
	Merged     int       `json:"merged"`
	Failures   []Failure `json:"failures,omitempty"`
}

// Merge concatenates the given files into outputPath.
//
// Files that cannot be read are recorded as failures and skipped; the merge
// fails only when nothing could be read or the output cannot be written.
func Merge(paths []string, outputPath string, opts Options) (*Result, error) {
	result := &Result{OutputPath: outputPath}

	var b strings.Builder
	for _, path := range paths {
		content, err := readWithFallback(path)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Path: path, Reason: err.Error()})
			continue
		}
		if opts.StripWhitespace {
			content = stripWhitespace(content)
		}
		b.WriteString(separator(path, opts))
		writeBody(&b, content, opts)
		b.WriteString("\n")
		result.Merged++
	}

	if result.Merged == 0 {
		return result, fmt.Errorf("no input files could be read")
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	result.Success = true
	return result, nil
}

// ConvertMarkdown merges the given files into a single markdown document:
// a heading per source file, with non-markdown content fenced as code.
func ConvertMarkdown(paths []string, outputPath string) (*Result, error) {
	result := &Result{OutputPath: outputPath}

	var b strings.Builder
	b.WriteString("# Merged Files\n\n")
	b.WriteString(fmt.Sprintf("Generated %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	for _, path := range paths {
		content, err := readWithFallback(path)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Path: path, Reason: err.Error()})
			continue
		}
		b.WriteString(fmt.Sprintf("## %s\n\n", filepath.Base(path)))
		if strings.ToLower(filepath.Ext(path)) == ".md" {
			b.WriteString(content)
			if !strings.HasSuffix(content, "\n") {
				b.WriteString("\n")
			}
		} else {
			b.WriteString("```" + fenceLanguage(path) + "\n")
			b.WriteString(content)
			if !strings.HasSuffix(content, "\n") {
				b.WriteString("\n")
			}
			b.WriteString("```\n")
		}
		b.WriteString("\n")
		result.Merged++
	}

	if result.Merged == 0 {
		return result, fmt.Errorf("no input files could be read")
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	result.Success = true
	return result, nil
}

// Stats aggregates counters over a set of text files.
type Stats struct {
	Files int `json:"files"`
	Lines int `json:"lines"`
	Words int `json:"words"`
	Chars int `json:"chars"`
}

// Statistics counts lines, words and characters across the readable inputs.
func Statistics(paths []string) *Stats {
	stats := &Stats{}
	for _, path := range paths {
		content, err := readWithFallback(path)
		if err != nil {
			continue
		}
		stats.Files++
		stats.Chars += utf8.RuneCountInString(content)
		stats.Words += len(strings.Fields(content))
		stats.Lines += strings.Count(content, "\n")
		if len(content) > 0 && !strings.HasSuffix(content, "\n") {
			stats.Lines++
		}
	}
	return stats
}

// readWithFallback reads a file as UTF-8 and falls back to Windows-1252 and
// then Latin-1 for legacy inputs, mirroring what users expect from files
// produced by older Windows editors.
func readWithFallback(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.ISO8859_1} {
		if decoded, err := cm.NewDecoder().Bytes(data); err == nil {
			return string(decoded), nil
		}
	}
	return "", fmt.Errorf("failed to decode file with any supported encoding")
}

func separator(path string, opts Options) string {
	name := filepath.Base(path)
	stamp := ""
	if opts.Timestamps {
		if st, err := os.Stat(path); err == nil {
			stamp = " (" + st.ModTime().Format("2006-01-02 15:04:05") + ")"
		}
	}

	switch opts.Separator {
	case SeparatorFancy:
		title := fmt.Sprintf("| %s%s |", name, stamp)
		bar := strings.Repeat("=", len(title))
		return fmt.Sprintf("%s\n%s\n%s\n\n", bar, title, bar)
	case SeparatorMinimal:
		return fmt.Sprintf("--- %s%s ---\n\n", name, stamp)
	case SeparatorNone:
		return ""
	default:
		return fmt.Sprintf("=== %s%s ===\n\n", name, stamp)
	}
}

func writeBody(b *strings.Builder, content string, opts Options) {
	if !opts.LineNumbers {
		b.WriteString(content)
		if len(content) > 0 && !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}
		return
	}

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, line := range lines {
		fmt.Fprintf(b, "%4d | %s\n", i+1, line)
	}
}

func stripWhitespace(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	out := strings.Join(lines, "\n")
	out = strings.Trim(out, "\n")
	if out != "" {
		out += "\n"
	}
	return out
}

// fenceLanguage guesses a markdown code-fence language from the extension.
func fenceLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	case ".log":
		return "text"
	default:
		return ""
	}
}
