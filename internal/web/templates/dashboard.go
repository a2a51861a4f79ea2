package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/surveybase/internal/core"
)

// Dashboard lists the projects with their survey and latest workbook.
func Dashboard(projects []core.Project) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Projects</h1>`)

		if len(projects) == 0 {
			h.raw(`<p class="muted">No projects yet. Create one with POST /api/projects.</p>`)
			return h.err
		}

		h.raw(`<table><thead><tr><th>Project</th><th>Survey</th><th>Workbook</th><th>Updated</th></tr></thead><tbody>`)
		for _, p := range projects {
			h.rawf(`<tr><td><a href="/projects/%s">`, p.ID)
			h.text(p.Name)
			h.raw(`</a></td><td>`)
			if p.SurveyID == "" {
				h.raw(`<span class="muted">not set</span>`)
			} else {
				h.text(p.SurveyID)
			}
			h.raw(`</td><td>`)
			if p.ArtifactFilename == "" {
				h.raw(`<span class="muted">none</span>`)
			} else {
				h.rawf(`<a href="/projects/%s/artifact">`, p.ID)
				h.text(p.ArtifactFilename)
				h.raw(`</a>`)
			}
			h.raw(`</td><td>`)
			h.text(formatTimePtr(p.ArtifactUpdatedAt))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
	return layout("Projects", body)
}
