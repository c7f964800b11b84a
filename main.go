package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"
)

const usage = `Zetwerk - a single-pass static site build pipeline

Usage: zetwerk [OPTIONS] <WORKSPACE>

The workspace directory must contain input/, templates/ and config.yml.
On every run the output/ tree is recreated from input/, after which the
build consumes the page sources and original images inside it.

Options:
	-q, --quality <QUALITY> WebP encoding quality (default: 90)
`

func main() {
	opts := DefaultImageOptions()

	flag.IntVarP(&opts.Quality, "quality", "q", opts.Quality, "")
	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	workspace := flag.Arg(0)
	info, err := os.Stat(workspace)
	if err != nil || !info.IsDir() {
		log.Fatal("Workspace %s does not exist or is not a directory\n", workspace)
	}

	buildSite(workspace, opts)
}

// buildSite runs the whole pipeline against the given workspace directory.
func buildSite(workspace string, opts ImageOptions) {
	timeStart := time.Now()

	inputDir := filepath.Join(workspace, "input")
	outputDir := filepath.Join(workspace, "output")
	templatesDir := filepath.Join(workspace, "templates")
	configFile := filepath.Join(workspace, "config.yml")

	tpl, err := loadTemplates(templatesDir)
	if err != nil {
		log.Fatal("Error reading templates/ directory: %s\n", err)
	}

	if err := prepareOutputDir(inputDir, outputDir); err != nil {
		log.Fatal("Error recreating output/ from input/: %s\n", err)
	}

	site, err := parseConfig(outputDir, configFile)
	if err != nil {
		log.Fatal("Error reading configuration file at %s: %s\n", configFile, err)
	}

	if err := site.transformPages(opts); err != nil {
		log.Fatal("Error transforming pages: %s\n", err)
	}

	if err := tpl.exportPages(site); err != nil {
		log.Fatal("Error exporting pages: %s\n", err)
	}

	if err := tpl.exportSitemap(site, outputDir); err != nil {
		log.Fatal("Error exporting sitemap: %s\n", err)
	}

	if err := tpl.exportFeed(site, outputDir); err != nil {
		log.Fatal("Error exporting feed: %s\n", err)
	}

	log.Info("Built site containing %d pages in %d ms\n", len(site.Pages), time.Since(timeStart).Milliseconds())
}

// func to calculate and print execution time
func measure(name string) func() {
	start := time.Now()
	return func() {
		log.Info("%s execution time: %v\n", name, time.Since(start))
	}
}
