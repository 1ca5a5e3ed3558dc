// Package cli implements the interactive menu interface: file selection,
// option dialogs, and dispatch into the merge, text and collect pipelines.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bintang/filemerge/internal/files"
	"github.com/bintang/filemerge/internal/imaging"
	"github.com/bintang/filemerge/internal/text"
)

// App holds the interactive session state: the selected files and the
// streams the menu talks over.
type App struct {
	in    *bufio.Scanner
	out   io.Writer
	files []string
}

// New creates an App reading stdin and writing stdout.
func New() *App {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO creates an App over arbitrary streams, used by tests.
func NewWithIO(r io.Reader, w io.Writer) *App {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &App{in: sc, out: w}
}

// Run drives the menu loop until the user exits or input ends.
func (a *App) Run() error {
	a.printHeader()
	for {
		a.printMenu()
		fmt.Fprint(a.out, "Select option (0-6): ")
		choice, ok := a.readLine()
		if !ok {
			if a.in.Err() != nil {
				return fmt.Errorf("input error: %w", a.in.Err())
			}
			return nil // EOF
		}
		switch choice {
		case "0":
			fmt.Fprintln(a.out, "Bye.")
			return nil
		case "1":
			a.addFiles()
		case "2":
			a.viewFiles()
		case "3":
			a.clearSelection()
		case "4":
			a.processFiles()
		case "5":
			a.batchDirectory()
		case "6":
			a.showHelp()
		default:
			fmt.Fprintln(a.out, "Invalid option, try again.")
		}
	}
}

// readLine reads one trimmed input line; ok is false at end of input.
func (a *App) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return strings.Trim(strings.TrimSpace(a.in.Text()), `"'`), true
}

func (a *App) printHeader() {
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
	fmt.Fprintln(a.out, "  filemerge - merge images, text files, or collect files")
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
}

func (a *App) printMenu() {
	fmt.Fprint(a.out, `
 1. Add files
 2. View selected files
 3. Clear selection
 4. Process & merge
 5. Batch process directory
 6. Help
 0. Exit
`)
}

// prompt reads one line, returning def when the user just presses enter.
func (a *App) prompt(label, def string) string {
	if def != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(a.out, "%s: ", label)
	}
	line, ok := a.readLine()
	if !ok || line == "" {
		return def
	}
	return line
}

func (a *App) promptInt(label string, def int) int {
	s := a.prompt(label, strconv.Itoa(def))
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(a.out, "Not a number, using %d.\n", def)
		return def
	}
	return n
}

func (a *App) addFiles() {
	fmt.Fprintln(a.out, "\nEnter file paths, one per line. Empty line to finish.")
	for {
		path := a.prompt("File path", "")
		if path == "" {
			break
		}
		if err := files.Validate(path); err != nil {
			fmt.Fprintf(a.out, "  error: %v\n", err)
			continue
		}
		if contains(a.files, path) {
			fmt.Fprintf(a.out, "  already added: %s\n", path)
			continue
		}
		a.files = append(a.files, path)
		fmt.Fprintf(a.out, "  added: %s\n", path)
	}
	fmt.Fprintf(a.out, "Total files selected: %d\n", len(a.files))
}

func (a *App) viewFiles() {
	if len(a.files) == 0 {
		fmt.Fprintln(a.out, "\nNo files selected yet.")
		return
	}
	fmt.Fprintf(a.out, "\nSelected files (%d):\n", len(a.files))
	var total int64
	for i, path := range a.files {
		info, err := files.Stat(path)
		if err != nil {
			fmt.Fprintf(a.out, "%2d. %s (unreadable: %v)\n", i+1, path, err)
			continue
		}
		fmt.Fprintf(a.out, "%2d. %-40s %8.2f MB  [%s]\n",
			i+1, info.Name, float64(info.Size)/(1024*1024), info.Category)
		total += info.Size
	}
	fmt.Fprintf(a.out, "Total size: %.2f MB\n", float64(total)/(1024*1024))
}

func (a *App) clearSelection() {
	if len(a.files) == 0 {
		fmt.Fprintln(a.out, "\nNothing to clear.")
		return
	}
	if strings.ToLower(a.prompt(fmt.Sprintf("Clear %d selected files? (y/n)", len(a.files)), "n")) == "y" {
		a.files = nil
		fmt.Fprintln(a.out, "Selection cleared.")
	}
}

func (a *App) processFiles() {
	if len(a.files) == 0 {
		fmt.Fprintln(a.out, "\nNo files selected. Add files first.")
		return
	}

	ok, category := files.Consistent(a.files)
	if !ok {
		fmt.Fprintln(a.out, "\nMixed file types detected; all files must be images or all text.")
		return
	}

	fmt.Fprintln(a.out, "\nProcessing mode:")
	fmt.Fprintln(a.out, " 1. Merge into a single output file")
	fmt.Fprintln(a.out, " 2. Collect files into a folder (copy or move)")
	if a.prompt("Mode (1-2)", "1") == "2" {
		a.collectFiles(category)
		return
	}

	switch category {
	case "image":
		a.mergeImages()
	case "text":
		a.mergeText()
	default:
		fmt.Fprintf(a.out, "Unsupported file category: %s\n", category)
	}
}

func (a *App) collectFiles(category string) {
	move := a.prompt("Copy or move? (copy/move)", "copy") == "move"
	def := fmt.Sprintf("collected_%s_%s", category, time.Now().Format("20060102_150405"))
	dest := a.prompt("Destination folder", def)

	result, err := files.Collect(a.files, dest, move)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	verb := "copied"
	if move {
		verb = "moved"
	}
	fmt.Fprintf(a.out, "%d files %s to %s\n", result.Collected, verb, result.Dir)
	for _, f := range result.Failures {
		fmt.Fprintf(a.out, "  failed: %s (%s)\n", f.Path, f.Reason)
	}
}

func (a *App) mergeImages() {
	cfg := imaging.DefaultConfig()

	fmt.Fprintln(a.out, "\nLayout: vertical, horizontal, grid")
	layout, err := imaging.ParseLayoutMode(a.prompt("Layout", "vertical"))
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	cfg.Layout = layout
	if layout == imaging.LayoutGrid {
		cfg.Columns = a.promptInt("Columns (0 = auto)", 0)
	}

	cfg.Spacing = a.promptInt("Spacing between images (px)", 10)
	cfg.Padding = a.promptInt("Padding around canvas (px)", 0)

	fmt.Fprintln(a.out, "Resize mode: fit, fill, stretch")
	resize, err := imaging.ParseResizeMode(a.prompt("Resize", "fit"))
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	cfg.Resize = resize

	if strings.ToLower(a.prompt("Force a uniform cell size? (y/n)", "n")) == "y" {
		cfg.CellWidth = a.promptInt("Cell width (px)", 0)
		cfg.CellHeight = a.promptInt("Cell height (px)", 0)
	}

	if bg := a.prompt("Background color (hex)", "#FFFFFF"); bg != "" {
		c, err := imaging.ParseHexColor(bg)
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			return
		}
		cfg.Background = c
	}

	fmt.Fprintln(a.out, "Filters: none, grayscale, sepia, blur, sharpen (comma separated)")
	if raw := a.prompt("Filters", "none"); raw != "none" {
		for _, name := range strings.Split(raw, ",") {
			e, err := imaging.ParseEffect(strings.TrimSpace(name))
			if err != nil {
				fmt.Fprintf(a.out, "Error: %v\n", err)
				return
			}
			cfg.Effects = append(cfg.Effects, e)
		}
	}

	if wmText := a.prompt("Watermark text (empty to skip)", ""); wmText != "" {
		pos, err := imaging.ParseWatermarkPosition(a.prompt("Watermark position (top-left/top-right/bottom-left/bottom-right/center)", "bottom-right"))
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			return
		}
		cfg.Watermark = &imaging.Watermark{Text: wmText, Position: pos, Opacity: 0.5}
	}

	output := a.prompt("Output filename", "merged_images.png")
	cfg.OutputPath = files.UniqueName(output)

	fmt.Fprintln(a.out, "Processing images...")
	result, err := imaging.Merge(a.files, cfg, a.progress())
	a.reportImageResult(result, err)
}

func (a *App) progress() imaging.ProgressFunc {
	return func(stage imaging.Stage, path string, done, total int) {
		fmt.Fprintf(a.out, "  [%s] %d/%d %s\n", stage, done, total, path)
	}
}

func (a *App) reportImageResult(result *imaging.MergeResult, err error) {
	for _, f := range result.Failures {
		fmt.Fprintf(a.out, "  skipped: %s (%s)\n", f.Path, f.Reason)
	}
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Done: %d images merged into %s (%dx%d)\n",
		result.Merged, result.OutputPath, result.CanvasWidth, result.CanvasHeight)
}

func (a *App) mergeText() {
	fmt.Fprintln(a.out, "\nOutput format: txt, markdown")
	if a.prompt("Format", "txt") == "markdown" {
		output := files.UniqueName(a.prompt("Output filename", "merged.md"))
		result, err := text.ConvertMarkdown(a.files, output)
		a.reportTextResult(result, err)
		return
	}

	var opts text.Options
	fmt.Fprintln(a.out, "Separator style: simple, fancy, minimal, none")
	style, err := text.ParseSeparatorStyle(a.prompt("Separator", "simple"))
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	opts.Separator = style
	opts.LineNumbers = strings.ToLower(a.prompt("Add line numbers? (y/n)", "n")) == "y"
	opts.Timestamps = strings.ToLower(a.prompt("Add timestamps? (y/n)", "n")) == "y"
	opts.StripWhitespace = strings.ToLower(a.prompt("Strip whitespace? (y/n)", "n")) == "y"

	output := files.UniqueName(a.prompt("Output filename", "merged.txt"))
	result, err := text.Merge(a.files, output, opts)
	a.reportTextResult(result, err)

	if err == nil {
		stats := text.Statistics(a.files)
		fmt.Fprintf(a.out, "Statistics: %d files, %d lines, %d words, %d chars\n",
			stats.Files, stats.Lines, stats.Words, stats.Chars)
	}
}

func (a *App) reportTextResult(result *text.Result, err error) {
	for _, f := range result.Failures {
		fmt.Fprintf(a.out, "  skipped: %s (%s)\n", f.Path, f.Reason)
	}
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Done: %d files merged into %s\n", result.Merged, result.OutputPath)
}

func (a *App) batchDirectory() {
	dir := a.prompt("\nDirectory path", "")
	if dir == "" {
		return
	}
	category := a.prompt("File type (image/text)", "image")
	paths, err := files.ScanDir(dir, category)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	if len(paths) == 0 {
		fmt.Fprintln(a.out, "No matching files found.")
		return
	}
	fmt.Fprintf(a.out, "Found %d files.\n", len(paths))
	a.files = paths
	a.viewFiles()
	if strings.ToLower(a.prompt("Process these files? (y/n)", "y")) == "y" {
		a.processFiles()
	}
}

func (a *App) showHelp() {
	fmt.Fprint(a.out, `
How to use filemerge:

 1. Add files       - select files one by one; they are validated as you go
 2. View files      - list the selection with sizes and categories
 4. Process & merge - images: layouts, resize modes, filters, watermark
                      text: separators, line numbers, markdown
                      or collect the selection into a folder (copy/move)
 5. Batch process   - pick up every image or text file in a directory

All selected files must share one category (all images or all text).
Existing outputs are never overwritten; a numbered name is chosen instead.
`)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
