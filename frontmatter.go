package main

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/goccy/go-yaml"
)

// A front-matter block is fenced by lines of three or more dashes at the very
// start of the document. The fence is optional; the closing line may follow
// the opening one directly.
var reFrontMatter = regexp.MustCompile(`(?s)^(?:-{3,}\n(.*?)\n?-{3,}\n)?(.*)$`)

// splitFrontMatter splits a raw page source into its YAML front-matter
// mapping and the markdown body. Documents without a fence yield an empty
// mapping and the entire input as body.
func splitFrontMatter(raw []byte) (map[string]any, []byte, error) {
	m := reFrontMatter.FindSubmatch(raw)

	custom := make(map[string]any)
	if fm := bytes.TrimSpace(m[1]); len(fm) > 0 {
		if err := yaml.Unmarshal(fm, &custom); err != nil {
			return nil, nil, fmt.Errorf("invalid front matter: %w", err)
		}
	}

	return custom, m[2], nil
}
