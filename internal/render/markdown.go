// Package render converts article Markdown into sanitised HTML.
package render

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns Markdown into an HTML fragment.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

type options struct {
	style string
}

// Option configures a Renderer.
type Option func(*options)

// WithHighlighting highlights fenced code at conversion time using the named
// chroma style. The site leaves this off and highlights after render.
func WithHighlighting(style string) Option {
	return func(o *options) { o.style = style }
}

// New builds a Renderer.
func New(opts ...Option) *Renderer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	exts := []goldmark.Extender{extension.GFM}
	if o.style != "" {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(o.style),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Renderer{md: md, policy: newPolicy(o.style != "")}
}

var languageClass = regexp.MustCompile(`^language-[\w+#.-]+$`)

func newPolicy(inlineStyles bool) *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(languageClass).OnElements("code")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	if inlineStyles {
		p.AllowAttrs("style").OnElements("pre", "span", "code")
		p.AllowStyles("color", "background-color", "font-weight", "font-style", "text-decoration").Globally()
	}
	return p
}

// Render converts markdown to sanitised HTML. Empty input renders to an
// empty string.
func (r *Renderer) Render(markdown string) (string, error) {
	if markdown == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Title returns the text of the first level-one heading, or "".
func Title(markdown string) string {
	for _, line := range bytes.Split([]byte(markdown), []byte("\n")) {
		line = bytes.TrimSpace(line)
		if bytes.HasPrefix(line, []byte("# ")) {
			return string(bytes.TrimSpace(line[2:]))
		}
	}
	return ""
}
