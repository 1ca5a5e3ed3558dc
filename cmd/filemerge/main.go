package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bintang/filemerge/internal/cli"
	"github.com/bintang/filemerge/internal/imaging"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("filemerge %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "merge":
			if err := runMerge(os.Args[2:]); err != nil {
				log.Fatalf("merge failed: %v", err)
			}
			return
		}
	}

	app := cli.New()
	if err := app.Run(); err != nil {
		log.Fatalf("CLI error: %v", err)
	}
}

func printUsage() {
	fmt.Println("filemerge - merge images or text files, or collect files into a folder")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  filemerge                 Start the interactive menu")
	fmt.Println("  filemerge merge [flags] <image>...")
	fmt.Println("                            One-shot image merge")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Run 'filemerge merge' without arguments for merge flags.")
}

// runMerge performs a one-shot image merge from command line flags.
func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)

	layout := fs.String("layout", "vertical", "layout mode: vertical, horizontal, grid")
	cols := fs.Int("cols", 0, "grid columns (0 = auto)")
	resize := fs.String("resize", "fit", "resize mode: fit, fill, stretch")
	spacing := fs.Int("spacing", 10, "gap between images in pixels")
	padding := fs.Int("padding", 0, "border around the canvas in pixels")
	align := fs.String("align", "center", "cross-axis alignment: start, center, end")
	cellW := fs.Int("cell-width", 0, "uniform cell width (0 = natural sizes)")
	cellH := fs.Int("cell-height", 0, "uniform cell height (0 = natural sizes)")
	bg := fs.String("bg", "#FFFFFF", "background color as hex")
	output := fs.String("o", "merged.png", "output file")
	format := fs.String("format", "", "output format (default: from extension)")
	quality := fs.Int("quality", 90, "JPEG/WebP quality 1-100")
	effectsFlag := fs.String("effects", "", "comma-separated filters: grayscale, sepia, blur, sharpen")
	wmText := fs.String("watermark", "", "watermark text")
	wmPos := fs.String("watermark-pos", "bottom-right", "watermark position")
	wmOpacity := fs.Float64("watermark-opacity", 0.5, "watermark opacity 0-1")
	quiet := fs.Bool("q", false, "suppress progress output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no input images given")
	}

	cfg := imaging.DefaultConfig()
	cfg.OutputPath = *output
	cfg.Columns = *cols
	cfg.Spacing = *spacing
	cfg.Padding = *padding
	cfg.CellWidth = *cellW
	cfg.CellHeight = *cellH
	cfg.Format = *format
	cfg.Quality = *quality

	var err error
	if cfg.Layout, err = imaging.ParseLayoutMode(*layout); err != nil {
		return err
	}
	if cfg.Resize, err = imaging.ParseResizeMode(*resize); err != nil {
		return err
	}
	if cfg.Align, err = imaging.ParseAlignment(*align); err != nil {
		return err
	}
	if cfg.Background, err = imaging.ParseHexColor(*bg); err != nil {
		return err
	}
	if *effectsFlag != "" {
		for _, name := range strings.Split(*effectsFlag, ",") {
			e, err := imaging.ParseEffect(strings.TrimSpace(name))
			if err != nil {
				return err
			}
			cfg.Effects = append(cfg.Effects, e)
		}
	}
	if *wmText != "" {
		pos, err := imaging.ParseWatermarkPosition(*wmPos)
		if err != nil {
			return err
		}
		cfg.Watermark = &imaging.Watermark{Text: *wmText, Position: pos, Opacity: *wmOpacity}
	}

	var progress imaging.ProgressFunc
	if !*quiet {
		progress = func(stage imaging.Stage, path string, done, total int) {
			fmt.Printf("[%s] %d/%d %s\n", stage, done, total, path)
		}
	}

	result, err := imaging.Merge(fs.Args(), cfg, progress)
	for _, f := range result.Failures {
		fmt.Fprintf(os.Stderr, "skipped: %s (%s)\n", f.Path, f.Reason)
	}
	if err != nil {
		return err
	}

	fmt.Printf("merged %d images into %s (%dx%d)\n",
		result.Merged, result.OutputPath, result.CanvasWidth, result.CanvasHeight)
	return nil
}
