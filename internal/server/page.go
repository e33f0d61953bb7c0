package server

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ayusman/airdraw/internal/app"
)

const pageScript = `
const mode = document.getElementById("mode");
const tool = document.getElementById("tool");
const undoRedo = document.getElementById("history");
function show(st) {
  mode.textContent = st.mode;
  tool.textContent = st.tool + " " + st.color + " pen " + st.pen_width + "px eraser " + st.eraser_width + "px";
  undoRedo.textContent = (st.can_undo ? "undo " : "") + (st.can_redo ? "redo" : "");
}
document.querySelectorAll("button[data-action]").forEach(b => {
  b.addEventListener("click", () => fetch(b.dataset.action, {method: "POST"})
    .then(r => r.json()).then(r => r.state && show(r.state)));
});
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/api/events");
ws.onmessage = m => show(JSON.parse(m.data).state);
`

// IndexPage renders the control page for the given canvas state.
func IndexPage(st app.State, capturing bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		status := "stopped"
		if capturing {
			status = "capturing"
		}

		_, err := fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>airdraw</title>
<style>
body { font-family: monospace; margin: 1rem; background: #222; color: #eee; }
img { max-width: 100%%; border: 1px solid #555; }
button { margin-right: .5rem; }
</style>
</head>
<body>
<h1>airdraw</h1>
<p>Capture: <span id="status">%s</span> &middot; Mode: <span id="mode">%s</span></p>
<p>Tool: <span id="tool">%s %s pen %dpx eraser %dpx</span> <span id="history"></span></p>
<p>
<button data-action="/api/capture/start">Start</button>
<button data-action="/api/capture/stop">Stop</button>
<button data-action="/api/canvas/clear">Clear</button>
<button data-action="/api/history/undo">Undo</button>
<button data-action="/api/history/redo">Redo</button>
<a href="/api/canvas.png?layer=persistent" download="airdraw.png">Save PNG</a>
</p>
<img src="/api/stream" width="%d" height="%d" alt="canvas">
<script>%s</script>
</body>
</html>
`,
			templ.EscapeString(status),
			templ.EscapeString(string(st.Mode)),
			templ.EscapeString(st.Tool),
			templ.EscapeString(st.Color),
			st.PenWidth,
			st.EraserWidth,
			st.Width,
			st.Height,
			pageScript,
		)
		return err
	})
}
