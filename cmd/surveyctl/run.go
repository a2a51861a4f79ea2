package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/surveybase/internal/core"
)

// runOutcome is the result of one project run from the CLI.
type runOutcome struct {
	ProjectID uuid.UUID
	Name      string
	Run       *core.Run
	Err       error
}

func (c *cli) runCmd() *cobra.Command {
	var (
		all      bool
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "run [project-id...]",
		Short: "Export, transform and store the workbook of one or more projects",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("pass project ids or --all, not both")
			}
			if !all && len(args) == 0 {
				return fmt.Errorf("pass at least one project id, or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := core.ContextWithTrigger(cmd.Context(), "cli")

			targets, err := resolveTargets(ctx, app.Service, args, all)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				pterm.Warning.Println("no projects to run")
				return nil
			}

			if parallel <= 0 {
				parallel = c.cfg.Run.MaxConcurrent
			}
			outcomes := runProjects(ctx, app.Service, targets, parallel)

			if err := pterm.DefaultTable.WithHasHeader().WithData(outcomeTable(outcomes)).Render(); err != nil {
				return err
			}
			return summarize(outcomes)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Run every project")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "Projects run at once (default RUN_MAX_CONCURRENT)")
	return cmd
}

// resolveTargets turns the arguments into projects.
func resolveTargets(ctx context.Context, svc *core.Service, args []string, all bool) ([]core.Project, error) {
	if all {
		return svc.ListProjects(ctx)
	}

	targets := make([]core.Project, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid project id %q: %w", arg, err)
		}
		p, err := svc.GetProject(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", id, err)
		}
		targets = append(targets, *p)
	}
	return targets, nil
}

// runProjects runs every target with at most parallel in flight. A failed
// project does not stop the others.
func runProjects(ctx context.Context, svc *core.Service, targets []core.Project, parallel int) []runOutcome {
	outcomes := make([]runOutcome, len(targets))

	var g errgroup.Group
	g.SetLimit(max(parallel, 1))

	for i, p := range targets {
		g.Go(func() error {
			pterm.Info.Printfln("running %s", p.Name)
			run, err := svc.ProcessProject(ctx, p.ID)
			if err != nil {
				pterm.Error.Printfln("%s: %s", p.Name, core.FormatUserError(err))
			} else {
				pterm.Success.Printfln("%s: %s", p.Name, run.ArtifactFilename)
			}

			// each goroutine owns its slot
			outcomes[i] = runOutcome{ProjectID: p.ID, Name: p.Name, Run: run, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// outcomeTable renders outcomes as table rows with a header.
func outcomeTable(outcomes []runOutcome) pterm.TableData {
	data := pterm.TableData{{"Project", "Status", "Rows", "Columns", "Diagnostics", "Result"}}
	for _, o := range outcomes {
		status, rows, cols, diags := "not started", "", "", ""
		if o.Run != nil {
			status = string(o.Run.Status)
			rows = fmt.Sprint(o.Run.RowCount)
			cols = fmt.Sprint(o.Run.ColumnCount)
			diags = fmt.Sprint(len(o.Run.Diagnostics))
		}

		result := ""
		switch {
		case o.Err != nil:
			result = core.FormatUserError(o.Err)
		case o.Run != nil:
			result = o.Run.ArtifactFilename
		}
		data = append(data, []string{o.Name, status, rows, cols, diags, result})
	}
	return data
}

// summarize returns an error naming how many projects failed.
func summarize(outcomes []runOutcome) error {
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d projects failed", failed, len(outcomes))
	}
	pterm.Success.Printfln("%d projects exported", len(outcomes))
	return nil
}
