package main

import (
	"bytes"
	"path"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// newMarkdown builds the goldmark instance used for page bodies. The image
// variant names it emits are derived from opts, so emitted markup and the
// files produced by the image transformer stay in agreement.
func newMarkdown(opts ImageOptions) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle("friendly"),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
			&tocExtension{},
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&siteRenderer{opts: opts}, 100),
			),
		),
	)
}

// renderMarkdown converts a markdown page body to HTML.
func renderMarkdown(md goldmark.Markdown, body string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// siteRenderer overrides how links, images and tables are rendered. It is
// registered ahead of the default renderers so its rules win.
type siteRenderer struct {
	opts ImageOptions
}

func (r *siteRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(east.KindTable, r.renderTable)
}

// renderLink emits a plain anchor for internal targets. External targets,
// recognized by a scheme delimiter in the destination, open in a new context
// without leaking a window reference.
func (r *siteRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Link)

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	_ = w.WriteByte('"')
	if len(n.Title) > 0 {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	if bytes.Contains(n.Destination, []byte("://")) {
		_, _ = w.WriteString(` rel="noopener" target="_blank"`)
	}
	_ = w.WriteByte('>')

	return ast.WalkContinue, nil
}

// renderImage points the img tag at the precomputed content-width variant and
// wraps it in a link to the full-size variant inside a figure. The figure is
// a block element: it closes the surrounding paragraph and reopens it after.
func (r *siteRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)

	dest := string(util.URLEscape(n.Destination, true))
	stem := strings.TrimSuffix(dest, path.Ext(dest))
	full := stem + ".webp"
	resized := variantName(stem, r.opts.ContentWidth)

	alt := string(util.EscapeHTML(nodeText(n, source)))
	title := alt
	if len(n.Title) > 0 {
		title = string(util.EscapeHTML(n.Title))
	}

	_, _ = w.WriteString(`</p><figure><a href="`)
	_, _ = w.WriteString(full)
	_ = w.WriteByte('"')
	if strings.Contains(full, "://") {
		_, _ = w.WriteString(` rel="noopener" target="_blank"`)
	}
	_ = w.WriteByte('>')
	_, _ = w.WriteString(`<img src="` + resized + `" alt="` + alt + `" title="` + title + `"`)
	_, _ = w.WriteString(` loading="lazy" srcset="` + resized + `, ` + full + ` 2x" />`)
	_, _ = w.WriteString(`</a><figcaption>` + alt + `</figcaption></figure><p>`)

	return ast.WalkSkipChildren, nil
}

// renderTable wraps the table in a scroll container so wide tables do not
// overflow the page on narrow screens.
func (r *siteRenderer) renderTable(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<div class="table-wrapper"><table>` + "\n")
	} else {
		_, _ = w.WriteString("</table></div>\n")
	}
	return ast.WalkContinue, nil
}

// nodeText collects the plain text of n's descendants, dropping any markup.
func nodeText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.Bytes()
}
