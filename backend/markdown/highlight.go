package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/util"
)

// highlighter renders code with class-based chroma markup; colours come from
// the stylesheet returned by CSS.
type highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newHighlighter(styleName string) *highlighter {
	return &highlighter{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.PreventSurroundingPre(true)),
	}
}

// code returns a <code> element for src, highlighted when lang is known.
func (h *highlighter) code(lang, src string) string {
	var b strings.Builder
	if lang != "" {
		fmt.Fprintf(&b, `<code class="language-%s">`, util.EscapeHTML([]byte(lang)))
	} else {
		b.WriteString("<code>")
	}

	if body, ok := h.tokens(lang, src); ok {
		b.WriteString(body)
	} else {
		b.Write(util.EscapeHTML([]byte(src)))
	}
	b.WriteString("</code>")
	return b.String()
}

func (h *highlighter) tokens(lang, src string) (string, bool) {
	if lang == "" {
		return "", false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, src)
	if err != nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", false
	}
	return buf.String(), true
}

// block wraps highlighted code in a <pre>; extra is placed after the code.
func (h *highlighter) block(lang, src, extra string) string {
	return `<pre class="chroma">` + h.code(lang, src) + extra + `</pre>`
}

func (h *highlighter) css() (string, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", err
	}
	return buf.String(), nil
}
