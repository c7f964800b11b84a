package main

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

type Site struct {
	Name   string  `yaml:"name"`
	Author string  `yaml:"author"`
	Domain string  `yaml:"domain"`
	Pages  []*Page `yaml:"pages"`
}

type Page struct {
	Url         string    `yaml:"url"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	BannerId    string    `yaml:"banner_id"`
	Type        string    `yaml:"type"`
	Date        time.Time `yaml:"date"`
	Sitemap     *bool     `yaml:"sitemap"`

	// populated from the page source file
	Content string         `yaml:"-"`
	Custom  map[string]any `yaml:"-"`

	// resolved locations inside the output tree; Src is empty for pages
	// without a backing file
	Src string `yaml:"-"`
	Dst string `yaml:"-"`
}

// InSitemap reports whether the page should be listed in the sitemap.
// Pages are listed unless the config says otherwise.
func (p *Page) InSitemap() bool {
	return p.Sitemap == nil || *p.Sitemap
}

// HTML returns the rendered page content for use in page templates.
func (p *Page) HTML() template.HTML {
	return template.HTML(p.Content)
}

// parseConfig reads the site configuration and resolves every page descriptor
// against the output tree. Pages are returned sorted by date, newest first;
// pages without a date sort after every dated page.
func parseConfig(outputDir string, configFile string) (*Site, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configFile, err)
	}

	for _, p := range site.Pages {
		if err := p.resolve(outputDir); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(site.Pages, func(i int, j int) bool {
		return site.Pages[i].Date.After(site.Pages[j].Date)
	})

	return &site, nil
}

// resolve locates the page's markdown source inside the output tree: a url
// ending in .html is backed by a same-named .md file, anything else by an
// index.md inside the url's directory. Descriptors without a backing file are
// kept as source-less stubs. For the rest, the front matter is folded into
// Custom and the destination becomes the source path with a .html extension.
func (p *Page) resolve(outputDir string) error {
	path := filepath.Join(outputDir, strings.TrimPrefix(p.Url, "/"))

	var src string
	if strings.HasSuffix(path, ".html") {
		src = strings.TrimSuffix(path, ".html") + ".md"
	} else {
		src = filepath.Join(path, "index.md")
	}

	info, err := os.Stat(src)
	if err != nil || info.IsDir() {
		return nil
	}

	raw, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	custom, body, err := splitFrontMatter(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	p.Src = src
	p.Dst = strings.TrimSuffix(src, ".md") + ".html"
	p.Custom = custom
	p.Content = string(body)

	return nil
}

// transformPages derives the image variants referenced by each page and
// renders its markdown body to HTML. Source-less stub pages are skipped.
// Missing image files are skipped with a warning; everything else is fatal.
func (s *Site) transformPages(opts ImageOptions) error {
	defer measure("transformPages")()

	md := newMarkdown(opts)

	for _, p := range s.Pages {
		if p.Src == "" {
			continue
		}
		dir := filepath.Dir(p.Src)

		for _, ref := range extractImageRefs(p.Content) {
			err := articleThumbnails(filepath.Join(dir, ref), opts)
			if errors.Is(err, ErrImageMissing) {
				log.Warn("Skipping missing image %s referenced from %s\n", ref, p.Src)
				continue
			}
			if err != nil {
				return err
			}
		}

		html, err := renderMarkdown(md, p.Content)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", p.Src, err)
		}
		p.Content = html

		for _, banner := range bannerRefs(p.Custom) {
			err := bannerThumbnails(filepath.Join(dir, banner.file), banner.gravity, opts)
			if errors.Is(err, ErrImageMissing) {
				log.Warn("Skipping missing banner %s referenced from %s\n", banner.file, p.Src)
				continue
			}
			if err != nil {
				return err
			}
		}
	}

	return nil
}

type bannerRef struct {
	file    string
	gravity string
}

// bannerRefs pulls banner references out of a page's front-matter features.
// Feature entries without a banner key are ignored.
func bannerRefs(custom map[string]any) []bannerRef {
	features, _ := custom["features"].([]any)

	refs := make([]bannerRef, 0, len(features))
	for _, f := range features {
		m, ok := f.(map[string]any)
		if !ok {
			continue
		}

		file, _ := m["banner"].(string)
		if file == "" {
			continue
		}
		gravity, _ := m["banner_gravity"].(string)

		refs = append(refs, bannerRef{file: file, gravity: gravity})
	}

	return refs
}
