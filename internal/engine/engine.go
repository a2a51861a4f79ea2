// Package engine applies a project's ordered column rules to a survey table.
//
// A run sanitizes every string cell once, then executes rules strictly in
// order; each rule sees the table exactly as the previous rule left it.
// Three processors exist:
//
//   - MULTIPLE collapses a fixed-width multi-answer block into a compact,
//     sequentially numbered block, dropping "no answer" sentinels.
//   - CONCATENATE collapses a block into one "//"-joined column.
//   - RENAME renames a single column in place.
//
// A failing rule aborts the run. Rules that already ran stay applied, but a
// rule never leaves the table half-transformed: every check that can fail
// runs before the rule mutates anything.
package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/surveybase/internal/rules"
	"github.com/JonMunkholm/surveybase/internal/table"
)

// Separator joins values in CONCATENATE output.
const Separator = "//"

// Result is the outcome of a run.
type Result struct {
	Table       *table.Table
	Diagnostics []string
}

// Engine executes rule sets. It holds no per-run state and may be shared.
type Engine struct {
	logger *slog.Logger
}

// New creates an Engine. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Apply transforms t in place with every rule in set. The returned Result
// always carries the diagnostics gathered so far, including on error.
func (e *Engine) Apply(t *table.Table, set rules.Set) (*Result, error) {
	diags := &Diagnostics{}
	res := &Result{Table: t}

	sanitize(t)

	for _, r := range set.Rules() {
		before := t.Width()

		var err error
		switch r.Kind {
		case rules.KindMultiple:
			err = e.applyMultiple(t, r, diags)
		case rules.KindConcatenate:
			err = e.applyConcatenate(t, r)
		case rules.KindRename:
			err = e.applyRename(t, r)
		default:
			err = &InvalidRuleError{Rule: r, Reason: fmt.Sprintf("unknown kind %q", r.Kind)}
		}

		if err != nil {
			res.Diagnostics = diags.Entries()
			return res, err
		}

		e.logger.Debug("rule applied",
			"rule", r.String(),
			"columns_before", before,
			"columns_after", t.Width(),
		)
	}

	res.Diagnostics = diags.Entries()
	return res, nil
}

// locateSpan resolves the inclusive source span of a range rule.
func locateSpan(t *table.Table, r rules.Rule) (from, to int, err error) {
	from, ok := t.Index(r.SourceStart())
	if !ok {
		return 0, 0, &ColumnNotFoundError{Column: r.SourceStart(), Rule: r}
	}
	to, ok = t.Index(r.SourceEnd())
	if !ok {
		return 0, 0, &ColumnNotFoundError{Column: r.SourceEnd(), Rule: r}
	}
	if to < from {
		return 0, 0, &InvalidRuleError{
			Rule:   r,
			Reason: fmt.Sprintf("%q comes after %q", r.SourceStart(), r.SourceEnd()),
		}
	}
	return from, to, nil
}

// ensureFree checks that none of names survive outside the span being
// replaced.
func ensureFree(t *table.Table, names []string, from, to int) error {
	for _, name := range names {
		if pos, ok := t.Index(name); ok && (pos < from || pos > to) {
			return fmt.Errorf("column %q: %w", name, table.ErrDuplicateColumn)
		}
	}
	return nil
}

func (e *Engine) applyMultiple(t *table.Table, r rules.Rule, diags *Diagnostics) error {
	if r.DestRange == nil {
		return &InvalidRuleError{Rule: r, Reason: "destination range is required"}
	}
	window := *r.DestRange

	from, to, err := locateSpan(t, r)
	if err != nil {
		return err
	}

	filtered := make([][]table.Value, t.Rows())
	maxcol := 0
	for row := range filtered {
		var kept []table.Value
		for pos := from; pos <= to; pos++ {
			if v := t.Column(pos).Values[row]; !isSentinel(v) {
				kept = append(kept, v)
			}
		}
		filtered[row] = kept
		maxcol = max(maxcol, len(kept))
	}

	// Compacted columns take Start..Start+maxcol-1; any gap up to End is
	// padded with empty columns.
	total := maxcol
	if last := window.Start + maxcol - 1; last < window.End {
		total += window.End - last
	}
	names := make([]string, total)
	for i := range names {
		names[i] = r.DestName(window.Start + i)
	}
	if err := ensureFree(t, names, from, to); err != nil {
		return err
	}

	if _, err := t.RemoveRange(from, to); err != nil {
		return err
	}

	for n := 0; n < maxcol; n++ {
		values := make([]table.Value, t.Rows())
		for row, kept := range filtered {
			if n < len(kept) {
				values[row] = kept[n]
			}
		}
		if err := t.Insert(from+n, names[n], values); err != nil {
			return err
		}
		if window.Start+n > window.End {
			diags.Addf("new column added: %s", names[n])
		}
	}

	for i := maxcol; i < total; i++ {
		if err := t.Insert(from+i, names[i], t.Fill("")); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyConcatenate(t *table.Table, r rules.Rule) error {
	from, to, err := locateSpan(t, r)
	if err != nil {
		return err
	}
	if err := ensureFree(t, []string{r.DestPrefix}, from, to); err != nil {
		return err
	}

	values := make([]table.Value, t.Rows())
	parts := make([]string, 0, to-from+1)
	for row := range values {
		parts = parts[:0]
		for pos := from; pos <= to; pos++ {
			v := t.Column(pos).Values[row]
			if isTextSentinel(v) {
				continue
			}
			parts = append(parts, formatValue(v))
		}
		values[row] = strings.Join(parts, Separator)
	}

	if _, err := t.RemoveRange(from, to); err != nil {
		return err
	}
	return t.Insert(from, r.DestPrefix, values)
}

func (e *Engine) applyRename(t *table.Table, r rules.Rule) error {
	renamed, err := t.Rename(r.SourcePrefix, r.DestPrefix)
	if err != nil {
		return err
	}
	if !renamed {
		e.logger.Debug("rename source not present, skipping",
			"rule", r.String(),
			"column", r.SourcePrefix,
		)
	}
	return nil
}
