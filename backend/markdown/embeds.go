package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

var (
	youtubeLink = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([\w-]+)`)
	githubRepo  = regexp.MustCompile(`github\.com/[\w-]+/[\w-]+`)
)

// renderImage turns image syntax pointing at YouTube, a PDF or a GitHub
// repository into an embed; anything else stays an <img>.
func (r *blockRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)

	src := string(n.Destination)
	alt := string(n.Text(source))
	_, _ = w.WriteString(embed(src, alt, string(n.Title)))
	return ast.WalkSkipChildren, nil
}

func embed(src, alt, title string) string {
	href := attrEscape(string(util.URLEscape([]byte(src), true)))
	altText := attrEscape(alt)

	if m := youtubeLink.FindStringSubmatch(src); m != nil {
		return `<div class="video-embed"><iframe src="https://www.youtube.com/embed/` + m[1] +
			`" frameborder="0" allowfullscreen loading="lazy" style="width:100%;aspect-ratio:16/9;border-radius:8px;"></iframe></div>`
	}

	if strings.HasSuffix(strings.ToLower(src), ".pdf") {
		label := altText
		if label == "" {
			label = "Отвори PDF"
		}
		return `<div class="pdf-embed"><embed src="` + href + `" type="application/pdf" width="100%" height="600px" style="border-radius:8px;border:1px solid var(--border);" />` +
			`<p><a href="` + href + `" target="_blank" rel="noopener">📄 ` + label + `</a></p></div>`
	}

	if githubRepo.MatchString(src) {
		label := altText
		if label == "" {
			label = href
		}
		return `<div class="github-embed card" style="padding:12px;margin:1rem 0;"><a href="` + href +
			`" target="_blank" rel="noopener" style="display:flex;align-items:center;gap:8px;">📦 <strong>` + label + `</strong></a></div>`
	}

	img := `<img src="` + href + `" alt="` + altText + `"`
	if title != "" {
		img += ` title="` + attrEscape(title) + `"`
	}
	return img + `>`
}

func attrEscape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
