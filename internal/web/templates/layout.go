// Package templates renders the HTML pages as templ components.
package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;background:#f7f7f8;color:#1f2328}
header{background:#1f2937;color:#fff;padding:.75rem 1.5rem}
header a{color:#fff;text-decoration:none;font-weight:600}
main{max-width:72rem;margin:1.5rem auto;padding:0 1.5rem}
table{border-collapse:collapse;width:100%;background:#fff;margin-bottom:1.5rem}
th,td{border:1px solid #d0d7de;padding:.4rem .6rem;text-align:left;font-size:.9rem;vertical-align:top}
th{background:#eef1f4}
.muted{color:#57606a}
.alert{border:1px solid #cf222e;background:#ffebe9;padding:.75rem 1rem;margin:1rem 0}
.status-succeeded{color:#1a7f37}
.status-failed{color:#cf222e}
.status-running{color:#9a6700}
button{padding:.4rem 1rem}
`

// htmlWriter writes markup, keeping the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// text writes s HTML-escaped.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// layout wraps body in the page chrome.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` · surveybase</title><style>`)
		h.raw(stylesheet)
		h.raw(`</style></head><body><header><a href="/">surveybase</a></header><main>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return formatTime(*t)
}
