// Package preview builds sandboxed live-code previews and hydrates rendered
// lesson HTML with them.
package preview

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HostScriptID marks the single host script element in a hydrated fragment.
const HostScriptID = "live-preview-host"

// SandboxPolicy allows scripts and nothing else: no same-origin, no top
// navigation, no popups.
const SandboxPolicy = "allow-scripts"

const frameStyle = "width:100%;border:none;background:white;display:block;overflow:hidden;"

//go:embed host.js
var hostJS string

// HostScript is the page-level listener that sizes frames by correlation id
// and toggles run outputs. It installs itself at most once per page.
var HostScript = strings.Replace(hostJS, "__MIN_HEIGHT__", strconv.Itoa(MinHeight), 1)

// Hydrator turns placeholders into sandboxed frames.
type Hydrator struct {
	// NewID returns a fresh correlation id for each preview.
	NewID func() string
}

func NewHydrator() *Hydrator {
	return &Hydrator{NewID: uuid.NewString}
}

// Hydrate runs the default hydrator.
func Hydrate(fragment string) (string, error) {
	return NewHydrator().Hydrate(fragment)
}

// Hydrate is idempotent: placeholders that already hold an iframe and run
// buttons that already carry a document are left untouched, and the host
// script is appended only when missing.
func (h *Hydrator) Hydrate(fragment string) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	var interactive, hasHost bool
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch {
		case n.DataAtom == atom.Script && attr(n, "id") == HostScriptID:
			hasHost = true
		case hasClass(n, "live-demo-preview"):
			interactive = true
			h.hydratePlaceholder(n)
		case n.DataAtom == atom.Button && hasClass(n, "code-run-btn"):
			interactive = true
			h.prepareRunButton(n)
		}
	})

	if interactive && !hasHost {
		script := &html.Node{
			Type: html.ElementNode, Data: "script", DataAtom: atom.Script,
			Attr: []html.Attribute{{Key: "id", Val: HostScriptID}},
		}
		script.AppendChild(&html.Node{Type: html.TextNode, Data: HostScript})
		root.AppendChild(script)
	}

	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}
	return b.String(), nil
}

func (h *Hydrator) hydratePlaceholder(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Iframe {
			return
		}
	}

	p, ok := h.build(attr(n, "data-lang"), attr(n, "data-code"))
	if !ok {
		return
	}

	setAttr(n, "data-preview-id", p.id)
	n.AppendChild(&html.Node{
		Type: html.ElementNode, Data: "iframe", DataAtom: atom.Iframe,
		Attr: []html.Attribute{
			{Key: "sandbox", Val: SandboxPolicy},
			{Key: "scrolling", Val: "no"},
			{Key: "style", Val: frameStyle + "height:" + strconv.Itoa(MinHeight) + "px;"},
			{Key: "data-preview-id", Val: p.id},
			{Key: "srcdoc", Val: p.srcdoc},
		},
	})
}

func (h *Hydrator) prepareRunButton(n *html.Node) {
	if attr(n, "data-srcdoc") != "" {
		return
	}
	p, ok := h.build(attr(n, "data-lang"), attr(n, "data-code"))
	if !ok {
		return
	}
	setAttr(n, "data-preview-id", p.id)
	setAttr(n, "data-srcdoc", p.srcdoc)
}

type built struct {
	id     string
	srcdoc string
}

// build decodes a placeholder payload. Empty or undecodable payloads are
// skipped and the element is left as it was.
func (h *Hydrator) build(lang, raw string) (built, bool) {
	if raw == "" {
		return built{}, false
	}
	id := h.NewID()
	if lang == "demo" {
		sections, err := DecodeSections(raw)
		if err != nil {
			return built{}, false
		}
		return built{id: id, srcdoc: DemoDocument(sections, id)}, true
	}
	code, err := DecodeURIComponent(raw)
	if err != nil {
		return built{}, false
	}
	return built{id: id, srcdoc: Document(lang, code, id)}, true
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
