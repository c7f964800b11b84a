package main

import (
	htmltemplate "html/template"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"
)

// Templates bundles the three user-supplied documents a build renders
// through: one HTML template per page and two XML templates for the site as
// a whole. All three must exist in the templates directory.
type Templates struct {
	page    *htmltemplate.Template
	sitemap *template.Template
	feed    *template.Template
}

func loadTemplates(dir string) (*Templates, error) {
	page, err := htmltemplate.ParseFiles(filepath.Join(dir, "page.html"))
	if err != nil {
		return nil, err
	}

	sitemap, err := template.ParseFiles(filepath.Join(dir, "sitemap.xml"))
	if err != nil {
		return nil, err
	}

	feed, err := template.ParseFiles(filepath.Join(dir, "atom.xml"))
	if err != nil {
		return nil, err
	}

	return &Templates{page: page, sitemap: sitemap, feed: feed}, nil
}

// exportPages renders every page with a backing source into its destination
// file, then deletes the consumed source. Stub pages are skipped.
func (t *Templates) exportPages(site *Site) error {
	defer measure("exportPages")()

	for _, p := range site.Pages {
		if p.Src == "" {
			continue
		}

		err := renderTo(p.Dst, t.page, map[string]any{
			"Site": site,
			"Page": p,
		})
		if err != nil {
			return err
		}

		if err := os.Remove(p.Src); err != nil {
			return err
		}
	}

	return nil
}

func (t *Templates) exportSitemap(site *Site, outputDir string) error {
	return renderTo(filepath.Join(outputDir, "sitemap.xml"), t.sitemap, map[string]any{
		"Site": site,
	})
}

func (t *Templates) exportFeed(site *Site, outputDir string) error {
	return renderTo(filepath.Join(outputDir, "atom.xml"), t.feed, map[string]any{
		"Site": site,
		"Now":  time.Now().UTC(),
	})
}

// executable is the subset of html/template and text/template used here.
type executable interface {
	Execute(wr io.Writer, data any) error
}

func renderTo(file string, tpl executable, context map[string]any) error {
	fh, err := os.Create(file)
	if err != nil {
		return err
	}
	defer fh.Close()

	if err := tpl.Execute(fh, context); err != nil {
		return err
	}

	return fh.Close()
}
