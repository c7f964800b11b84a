package main

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// tocMarker is the directive spelling: a paragraph consisting solely of it
// is expanded into a table of contents.
const tocMarker = "[TOC]"

var reSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a heading anchor id from heading text: lowercased, with
// runs of non-alphanumeric characters collapsed into single hyphens.
func slugify(s string) string {
	return strings.Trim(reSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// tocExtension assigns slugified ids to every heading and expands [TOC]
// paragraphs into lists of links to them.
type tocExtension struct{}

func (e *tocExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&tocTransformer{}, 100),
	))
}

type tocEntry struct {
	Level int
	Text  string
	ID    string
}

type tocTransformer struct{}

func (t *tocTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var entries []tocEntry
	var markers []*ast.Paragraph

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			txt := string(nodeText(v, source))
			id := slugify(txt)
			v.SetAttributeString("id", []byte(id))
			entries = append(entries, tocEntry{Level: v.Level, Text: txt, ID: id})
		case *ast.Paragraph:
			if strings.TrimSpace(string(nodeText(v, source))) == tocMarker {
				markers = append(markers, v)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, p := range markers {
		parent := p.Parent()
		parent.ReplaceChild(parent, p, tocList(entries))
	}
}

// tocList builds a list node linking to every collected heading.
func tocList(entries []tocEntry) ast.Node {
	list := ast.NewList('-')
	list.SetAttributeString("class", []byte("toc"))

	for _, e := range entries {
		link := ast.NewLink()
		link.Destination = []byte("#" + e.ID)
		link.AppendChild(link, ast.NewString([]byte(e.Text)))

		block := ast.NewTextBlock()
		block.AppendChild(block, link)

		item := ast.NewListItem(0)
		item.AppendChild(item, block)
		list.AppendChild(list, item)
	}

	return list
}
