package preview

import (
	"fmt"
	"html"
	"strings"
)

// MinHeight is the smallest height, in pixels, a preview frame is given.
const MinHeight = 30

const baseStyle = "body{font-family:system-ui,sans-serif;padding:12px;margin:0;overflow:hidden;}"

const cssSample = `<div class="preview-box"><p>CSS е приложен.</p><h3>Заглавие</h3><p>Параграф текст</p><a href="#">Връзка</a><ul><li>Елемент 1</li><li>Елемент 2</li></ul></div>`

const consoleCapture = `const _origLog=console.log;const _out=document.getElementById('out');
console.log=function(){_origLog.apply(console,arguments);_out.textContent+=Array.from(arguments).join(' ')+'\n';};
`

// ResizeScript reports the document height to the host page, tagged with the
// preview's correlation id.
func ResizeScript(id string) string {
	return fmt.Sprintf(`<script>
(function(){
  var id=%q;
  function send(){parent.postMessage({type:"preview-resize",id:id,height:document.body.scrollHeight},"*");}
  if(window.ResizeObserver){new ResizeObserver(send).observe(document.body);}else{window.addEventListener("resize",send);}
  window.addEventListener("load",function(){setTimeout(send,0);setTimeout(send,100);setTimeout(send,500);});
  send();
})();
</script>`, id)
}

func page(style, body, id string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>`)
	b.WriteString(baseStyle)
	b.WriteString(style)
	b.WriteString(`</style></head><body>`)
	b.WriteString(body)
	b.WriteString(ResizeScript(id))
	b.WriteString(`</body></html>`)
	return b.String()
}

// scriptSafe keeps user code from closing the surrounding script element.
func scriptSafe(code string) string {
	return strings.ReplaceAll(code, "</script", `<\/script`)
}

func styleSafe(code string) string {
	return strings.ReplaceAll(code, "</style", `<\/style`)
}

// Document builds the self-contained page for a single-language preview.
// Languages other than html, css and js are shown as escaped text.
func Document(lang, code, id string) string {
	switch NormalizeLang(lang) {
	case "html":
		return page("", code, id)
	case "css":
		return page(styleSafe(code), cssSample, id)
	case "js":
		return page("", `<pre id="out"></pre><script>`+"\n"+consoleCapture+scriptSafe(code)+`</script>`, id)
	default:
		return page("", `<pre>`+html.EscapeString(code)+`</pre>`, id)
	}
}

// DemoDocument builds the page for a combined demo block.
func DemoDocument(s Sections, id string) string {
	return page(styleSafe(s.CSS), s.HTML+`<script>`+scriptSafe(s.JS)+`</script>`, id)
}
