package markdown

import (
	"regexp"
	"strings"
	"unicode"

	"courseplatform/backend/preview"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

var (
	liveInfo     = regexp.MustCompile(`^(\w+)\s+live$`)
	demoMarker   = regexp.MustCompile(`^:::(\w+)\s*$`)
	runButtonTxt = "▶ Изпълни"
)

// blockRenderer overrides fenced code blocks and images.
type blockRenderer struct {
	mode Mode
	hl   *highlighter
}

func (r *blockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
	reg.Register(ast.KindImage, r.renderImage)
}

func (r *blockRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	info := ""
	if n.Info != nil {
		info = strings.TrimSpace(string(n.Info.Segment.Value(source)))
	}
	src := blockText(n, source)

	var out string
	switch m := liveInfo.FindStringSubmatch(info); {
	case m != nil:
		out = r.liveBlock(m[1], src)
	case info == "demo":
		out = r.demoBlock(src)
	default:
		lang := ""
		if fields := strings.Fields(info); len(fields) > 0 {
			lang = fields[0]
		}
		out = r.codeBlock(lang, src)
	}

	_, _ = w.WriteString(out)
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

func blockText(n *ast.FencedCodeBlock, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// codeBlock is a plain highlighted block. In display mode html, css and
// javascript blocks get a run button carrying their source.
func (r *blockRenderer) codeBlock(lang, src string) string {
	extra := ""
	if r.mode == ModeDisplay && preview.Runnable(lang) {
		extra = `<button type="button" class="code-run-btn" data-lang="` + preview.NormalizeLang(lang) +
			`" data-code="` + preview.EncodeURIComponent(src) + `">` + runButtonTxt + `</button>`
	}
	return r.hl.block(lang, src, extra)
}

func (r *blockRenderer) liveBlock(lang, src string) string {
	return `<div class="live-demo"><div class="live-demo-code">` + r.hl.block(lang, src, "") +
		`</div><div class="live-demo-preview" data-lang="` + string(util.EscapeHTML([]byte(lang))) +
		`" data-code="` + preview.EncodeURIComponent(src) + `"></div></div>`
}

// splitDemo buckets a demo body by :::html, :::css and :::js markers. Lines
// before the first marker belong to html; unknown markers are dropped.
func splitDemo(src string) preview.Sections {
	buckets := map[string]*strings.Builder{"html": {}, "css": {}, "js": {}}
	current := "html"

	for _, line := range strings.Split(src, "\n") {
		if m := demoMarker.FindStringSubmatch(line); m != nil {
			if lang := preview.NormalizeLang(m[1]); buckets[lang] != nil {
				current = lang
			}
			continue
		}
		buckets[current].WriteString(line)
		buckets[current].WriteByte('\n')
	}

	trim := func(b *strings.Builder) string {
		return strings.TrimRightFunc(b.String(), unicode.IsSpace)
	}
	return preview.Sections{
		HTML: trim(buckets["html"]),
		CSS:  trim(buckets["css"]),
		JS:   trim(buckets["js"]),
	}
}

func (r *blockRenderer) demoBlock(src string) string {
	s := splitDemo(src)

	var code strings.Builder
	section := func(label, lang, body string) {
		if body == "" {
			return
		}
		code.WriteString(`<div class="live-demo-section"><span class="live-demo-label">` + label + `</span>`)
		code.WriteString(r.hl.block(lang, body, ""))
		code.WriteString(`</div>`)
	}
	section("HTML", "html", s.HTML)
	section("CSS", "css", s.CSS)
	section("JavaScript", "javascript", s.JS)

	return `<div class="live-demo live-demo-combined"><div class="live-demo-code">` + code.String() +
		`</div><div class="live-demo-preview" data-lang="demo" data-code="` + preview.EncodeSections(s) + `"></div></div>`
}
