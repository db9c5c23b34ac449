// Package markdown renders lesson markdown to HTML with highlighted code,
// live preview placeholders and media embeds.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Mode selects between the editor preview and the public lesson view.
type Mode int

const (
	// ModeEdit renders without run buttons.
	ModeEdit Mode = iota
	// ModeDisplay adds a run button to html, css and javascript blocks that
	// are not live or demo blocks.
	ModeDisplay
)

// DefaultStyle is the chroma style used for highlighting.
const DefaultStyle = "github"

// Renderer is safe for concurrent use.
type Renderer struct {
	hl      *highlighter
	engines map[Mode]goldmark.Markdown
}

func NewRenderer(styleName string) *Renderer {
	if styleName == "" {
		styleName = DefaultStyle
	}
	hl := newHighlighter(styleName)
	return &Renderer{
		hl: hl,
		engines: map[Mode]goldmark.Markdown{
			ModeEdit:    newEngine(&blockRenderer{mode: ModeEdit, hl: hl}),
			ModeDisplay: newEngine(&blockRenderer{mode: ModeDisplay, hl: hl}),
		},
	}
}

func newEngine(br *blockRenderer) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Typographer),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(br, 100)),
		),
	)
}

// Render converts markdown to HTML. Empty input yields "".
func (r *Renderer) Render(source string, mode Mode) (string, error) {
	if source == "" {
		return "", nil
	}
	engine, ok := r.engines[mode]
	if !ok {
		return "", fmt.Errorf("unknown render mode %d", mode)
	}

	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

// HighlightCSS returns the stylesheet for the highlight classes.
func (r *Renderer) HighlightCSS() (string, error) {
	return r.hl.css()
}
