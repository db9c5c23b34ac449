package markdown

import (
	"strings"
	"testing"

	"courseplatform/backend/preview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type element struct {
	tag   string
	attrs map[string]string
	text  string
}

func elementsWithClass(t *testing.T, fragment, class string) []element {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)

	var out []element
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			attrs := map[string]string{}
			for _, a := range n.Attr {
				attrs[a.Key] = a.Val
			}
			for _, c := range strings.Fields(attrs["class"]) {
				if c == class {
					var text strings.Builder
					for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
						if ch.Type == html.TextNode {
							text.WriteString(ch.Data)
						}
					}
					out = append(out, element{tag: n.Data, attrs: attrs, text: text.String()})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return out
}

func render(t *testing.T, src string, mode Mode) string {
	t.Helper()
	out, err := NewRenderer("").Render(src, mode)
	require.NoError(t, err)
	return out
}

func TestLiveBlockRoundTrip(t *testing.T) {
	code := "const msg = 'Здравей & <свят>';\nconsole.log(msg + \"!\");\n"
	out := render(t, "Intro\n\n```js live\n"+code+"```\n", ModeEdit)

	placeholders := elementsWithClass(t, out, "live-demo-preview")
	require.Len(t, placeholders, 1)
	assert.Equal(t, "js", placeholders[0].attrs["data-lang"])

	decoded, err := preview.DecodeURIComponent(placeholders[0].attrs["data-code"])
	require.NoError(t, err)
	assert.Equal(t, code, decoded)

	assert.Len(t, elementsWithClass(t, out, "live-demo-code"), 1)
	assert.Contains(t, out, `<code class="language-js">`)
}

func TestDemoBlockOnlyCSS(t *testing.T) {
	out := render(t, "```demo\n:::css\nbody { color: red; }\n\n```\n", ModeDisplay)

	labels := elementsWithClass(t, out, "live-demo-label")
	require.Len(t, labels, 1)
	assert.Equal(t, "CSS", labels[0].text)

	placeholders := elementsWithClass(t, out, "live-demo-preview")
	require.Len(t, placeholders, 1)
	assert.Equal(t, "demo", placeholders[0].attrs["data-lang"])

	sections, err := preview.DecodeSections(placeholders[0].attrs["data-code"])
	require.NoError(t, err)
	assert.Equal(t, preview.Sections{CSS: "body { color: red; }"}, sections)
	assert.Empty(t, elementsWithClass(t, out, "code-run-btn"))
}

func TestSplitDemo(t *testing.T) {
	s := splitDemo("<h1>Hi</h1>\n:::JavaScript\nalert(1)\n:::css  \nh1{}\n:::python\nstill css\n")
	assert.Equal(t, "<h1>Hi</h1>", s.HTML)
	assert.Equal(t, "h1{}\nstill css", s.CSS)
	assert.Equal(t, "alert(1)", s.JS)
}

func TestRunButtons(t *testing.T) {
	src := "```html\n<b>x</b>\n```\n\n```go\nfunc main() {}\n```\n\n```javascript\nalert(1)\n```\n\n```css live\np{}\n```\n"

	display := render(t, src, ModeDisplay)
	buttons := elementsWithClass(t, display, "code-run-btn")
	require.Len(t, buttons, 2)
	assert.Equal(t, "html", buttons[0].attrs["data-lang"])
	assert.Equal(t, "js", buttons[1].attrs["data-lang"])

	code, err := preview.DecodeURIComponent(buttons[0].attrs["data-code"])
	require.NoError(t, err)
	assert.Equal(t, "<b>x</b>\n", code)

	assert.Empty(t, elementsWithClass(t, render(t, src, ModeEdit), "code-run-btn"))
}

func TestHighlighting(t *testing.T) {
	out := render(t, "```go\npackage main\n```\n\n```\nplain <text>\n```\n", ModeEdit)
	assert.Contains(t, out, `<pre class="chroma"><code class="language-go"><span`)
	assert.Contains(t, out, `<pre class="chroma"><code>plain &lt;text&gt;`)

	css, err := NewRenderer("").HighlightCSS()
	require.NoError(t, err)
	assert.Contains(t, css, ".chroma")
}

func TestImageEmbeds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"youtube watch", "![video](https://www.youtube.com/watch?v=dQw4w9WgXcQ)",
			[]string{`class="video-embed"`, `src="https://www.youtube.com/embed/dQw4w9WgXcQ"`, "aspect-ratio:16/9"}},
		{"youtube short", "![video](https://youtu.be/abc-123)",
			[]string{`src="https://www.youtube.com/embed/abc-123"`}},
		{"pdf", "![Лекция 1](/uploads/pdfs/lecture.pdf)",
			[]string{`class="pdf-embed"`, `<embed src="/uploads/pdfs/lecture.pdf" type="application/pdf"`, `target="_blank"`, "Лекция 1"}},
		{"pdf without alt", "![](/files/a.pdf)",
			[]string{"Отвори PDF"}},
		{"github", "![repo](https://github.com/golang/go)",
			[]string{`class="github-embed card"`, `href="https://github.com/golang/go"`, "<strong>repo</strong>"}},
		{"plain image", `![cat & dog](/img/cat.png "Cat")`,
			[]string{`<img src="/img/cat.png" alt="cat &amp; dog" title="Cat">`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, tt.src, ModeEdit)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, render(t, "", ModeDisplay))
}
