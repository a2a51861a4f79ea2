package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/surveybase/internal/core"
)

func (c *cli) projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			projects, err := app.Service.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			return pterm.DefaultTable.WithHasHeader().WithData(projectTable(projects)).Render()
		},
	}
}

func (c *cli) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules <project-id>",
		Short: "Show a project's rules in execution order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q: %w", args[0], err)
			}

			app, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			records, err := app.Service.ListRules(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				pterm.Info.Println("no rules; the export is stored as downloaded")
				return nil
			}
			return pterm.DefaultTable.WithHasHeader().WithData(ruleTable(records)).Render()
		},
	}
}

func (c *cli) runsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs <project-id>",
		Short: "Show a project's recent runs, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q: %w", args[0], err)
			}

			app, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if limit <= 0 {
				limit = c.cfg.Run.HistoryLimit
			}
			runs, err := app.Service.ListRuns(cmd.Context(), id, limit)
			if err != nil {
				return err
			}
			return pterm.DefaultTable.WithHasHeader().WithData(runTable(runs)).Render()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Runs to show (default RUN_HISTORY_LIMIT)")
	return cmd
}

func projectTable(projects []core.Project) pterm.TableData {
	data := pterm.TableData{{"ID", "Name", "Survey", "Workbook", "Updated"}}
	for _, p := range projects {
		updated := "never"
		if p.ArtifactUpdatedAt != nil {
			updated = p.ArtifactUpdatedAt.Local().Format(time.DateTime)
		}
		data = append(data, []string{p.ID.String(), p.Name, p.SurveyID, p.ArtifactFilename, updated})
	}
	return data
}

func ruleTable(records []core.RuleRecord) pterm.TableData {
	data := pterm.TableData{{"Order", "Process", "Source", "Destination", "ID"}}
	for _, rec := range records {
		r := rec.Rule

		source := r.SourcePrefix
		if r.SourceStartLabel != "" || r.SourceEndLabel != "" {
			source = r.SourceStart() + ".." + r.SourceEnd()
		}
		dest := r.DestPrefix
		if r.DestRange != nil {
			dest = fmt.Sprintf("%s..%s", r.DestName(r.DestRange.Start), r.DestName(r.DestRange.End))
		}

		data = append(data, []string{fmt.Sprint(r.OrderKey), string(r.Kind), source, dest, rec.ID.String()})
	}
	return data
}

func runTable(runs []core.Run) pterm.TableData {
	data := pterm.TableData{{"Started", "Status", "Duration", "Interviews", "Rows", "Columns", "Notes"}}
	for _, run := range runs {
		notes := run.ArtifactFilename
		if run.ErrorCode != "" {
			notes = run.ErrorCode + " " + run.ErrorMessage
		}
		if len(run.Diagnostics) > 0 {
			notes = strings.TrimSpace(notes + " " + strings.Join(run.Diagnostics, "; "))
		}

		data = append(data, []string{
			run.StartedAt.Local().Format(time.DateTime),
			string(run.Status),
			run.Duration().Round(time.Millisecond).String(),
			fmt.Sprint(run.InterviewCount),
			fmt.Sprint(run.RowCount),
			fmt.Sprint(run.ColumnCount),
			notes,
		})
	}
	return data
}
