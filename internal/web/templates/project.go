package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/rules"
)

// ProjectPageParams holds the data for ProjectPage.
type ProjectPageParams struct {
	Project core.Project
	Rules   []core.RuleRecord
	Runs    []core.Run

	// Busy disables the run button while every run slot is taken.
	Busy bool
}

// ProjectPage shows a project's rules, run history and a run button.
func ProjectPage(p ProjectPageParams) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<h1>`)
		h.text(p.Project.Name)
		h.raw(`</h1><p class="muted">Survey `)
		if p.Project.SurveyID == "" {
			h.raw(`not set`)
		} else {
			h.text(p.Project.SurveyID)
		}
		h.raw(`</p>`)

		h.rawf(`<form method="post" action="/projects/%s/run">`, p.Project.ID)
		if p.Busy {
			h.raw(`<button type="submit" disabled>Busy</button>`)
		} else {
			h.raw(`<button type="submit">Run now</button>`)
		}
		if p.Project.ArtifactFilename != "" {
			h.rawf(` <a href="/projects/%s/artifact">`, p.Project.ID)
			h.text(p.Project.ArtifactFilename)
			h.raw(`</a>`)
		}
		h.raw(`</form>`)

		h.render(ctx, rulesTable(p.Rules))
		h.render(ctx, runsTable(p.Runs))
		return h.err
	})
	return layout(p.Project.Name, body)
}

func rulesTable(records []core.RuleRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h2>Rules</h2>`)
		if len(records) == 0 {
			h.raw(`<p class="muted">No rules. The export is stored as downloaded.</p>`)
			return h.err
		}

		h.raw(`<table><thead><tr><th>#</th><th>Process</th><th>Source</th><th>Destination</th></tr></thead><tbody>`)
		for _, rec := range records {
			r := rec.Rule
			h.raw(`<tr><td>`)
			h.text(strconv.Itoa(r.OrderKey))
			h.raw(`</td><td>`)
			h.text(string(r.Kind))
			h.raw(`</td><td>`)
			h.text(ruleSource(r))
			h.raw(`</td><td>`)
			h.text(ruleDest(r))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}

func runsTable(runs []core.Run) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h2>Runs</h2>`)
		if len(runs) == 0 {
			h.raw(`<p class="muted">This project has not run yet.</p>`)
			return h.err
		}

		h.raw(`<table><thead><tr><th>Started</th><th>Status</th><th>Interviews</th><th>Rows × columns</th><th>Notes</th></tr></thead><tbody>`)
		for _, run := range runs {
			h.raw(`<tr><td>`)
			h.text(formatTime(run.StartedAt))
			h.rawf(`</td><td class="status-%s">`, run.Status)
			h.text(string(run.Status))
			if run.ErrorCode != "" {
				h.raw(` (`)
				h.text(run.ErrorCode)
				h.raw(`)`)
			}
			h.raw(`</td><td>`)
			h.text(strconv.Itoa(run.InterviewCount))
			h.raw(`</td><td>`)
			h.text(strconv.Itoa(run.RowCount) + " × " + strconv.Itoa(run.ColumnCount))
			h.raw(`</td><td>`)
			if run.ErrorMessage != "" {
				h.text(run.ErrorMessage)
			}
			if len(run.Diagnostics) > 0 {
				h.raw(`<ul>`)
				for _, d := range run.Diagnostics {
					h.raw(`<li>`)
					h.text(d)
					h.raw(`</li>`)
				}
				h.raw(`</ul>`)
			}
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}

func ruleSource(r rules.Rule) string {
	if r.Kind == rules.KindRename {
		return r.SourcePrefix
	}
	return r.SourceStart() + " … " + r.SourceEnd()
}

func ruleDest(r rules.Rule) string {
	if r.Kind == rules.KindMultiple && r.DestRange != nil {
		return strings.Join([]string{r.DestName(r.DestRange.Start), r.DestName(r.DestRange.End)}, " … ")
	}
	return r.DestPrefix
}
