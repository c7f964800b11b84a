package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, file string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, os.WriteFile(file, []byte(content), 0655))
}

func read(t *testing.T, file string) string {
	t.Helper()
	content, err := os.ReadFile(file)
	require.NoError(t, err)
	return string(content)
}

func TestParseConfig(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "output")

	write(t, filepath.Join(output, "blog", "post.md"), "---\nfeatures:\n  - banner: header.png\n    banner_gravity: start\n---\nHello.\n")
	write(t, filepath.Join(output, "about", "index.md"), "About me.\n")

	write(t, filepath.Join(dir, "config.yml"), `name: My site
author: Jane
domain: example.com
pages:
  - url: /blog/post.html
    title: A post
    description: The first post
    type: article
    date: 2023-01-01
  - url: /about/
    title: About
    sitemap: false
  - url: /missing/
    title: Elsewhere
`)

	site, err := parseConfig(output, filepath.Join(dir, "config.yml"))
	require.NoError(t, err)

	assert.Equal(t, "My site", site.Name)
	assert.Equal(t, "Jane", site.Author)
	assert.Equal(t, "example.com", site.Domain)
	require.Len(t, site.Pages, 3)

	// the dated page sorts first
	post := site.Pages[0]
	assert.Equal(t, "/blog/post.html", post.Url)
	assert.Equal(t, 2023, post.Date.Year())
	assert.Equal(t, filepath.Join(output, "blog", "post.md"), post.Src)
	assert.Equal(t, filepath.Join(output, "blog", "post.html"), post.Dst)
	assert.Equal(t, "Hello.\n", post.Content)
	assert.True(t, post.InSitemap())

	refs := bannerRefs(post.Custom)
	require.Len(t, refs, 1)
	assert.Equal(t, "header.png", refs[0].file)
	assert.Equal(t, "start", refs[0].gravity)

	// undated pages keep their config order after the dated ones
	about := site.Pages[1]
	assert.Equal(t, filepath.Join(output, "about", "index.md"), about.Src)
	assert.False(t, about.InSitemap())

	// a page without a backing file stays in the list as a stub
	stub := site.Pages[2]
	assert.Equal(t, "Elsewhere", stub.Title)
	assert.Empty(t, stub.Src)
	assert.Empty(t, stub.Dst)
}

func TestParseConfigSortsByDateDescending(t *testing.T) {
	dir := t.TempDir()

	write(t, filepath.Join(dir, "config.yml"), `name: My site
pages:
  - url: /undated/
  - url: /old.html
    date: 2020-05-01
  - url: /new.html
    date: 2023-01-01
  - url: /middle.html
    date: 2021-12-31
`)

	site, err := parseConfig(filepath.Join(dir, "output"), filepath.Join(dir, "config.yml"))
	require.NoError(t, err)
	require.Len(t, site.Pages, 4)

	assert.Equal(t, "/new.html", site.Pages[0].Url)
	assert.Equal(t, "/middle.html", site.Pages[1].Url)
	assert.Equal(t, "/old.html", site.Pages[2].Url)
	assert.Equal(t, "/undated/", site.Pages[3].Url)
}

func TestParseConfigMissingFile(t *testing.T) {
	_, err := parseConfig(t.TempDir(), filepath.Join(t.TempDir(), "config.yml"))
	assert.Error(t, err)
}

func TestBannerRefs(t *testing.T) {
	refs := bannerRefs(map[string]any{
		"features": []any{
			map[string]any{"banner": "a.png", "banner_gravity": "end"},
			map[string]any{"title": "no banner here"},
			map[string]any{"banner": "b.png"},
		},
	})

	require.Len(t, refs, 2)
	assert.Equal(t, bannerRef{file: "a.png", gravity: "end"}, refs[0])
	assert.Equal(t, bannerRef{file: "b.png", gravity: ""}, refs[1])

	assert.Empty(t, bannerRefs(map[string]any{}))
	assert.Empty(t, bannerRefs(map[string]any{"features": "not a list"}))
}
