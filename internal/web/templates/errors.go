package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorAlert renders an error fragment with its code for support reference.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		h.raw(`<p class="muted">Code: `)
		h.text(code)
		h.raw(`</p></div>`)
		return h.err
	})
}

// ErrorPage renders ErrorAlert as a full page.
func ErrorPage(message, action, code string) templ.Component {
	return layout("Error", ErrorAlert(message, action, code))
}
