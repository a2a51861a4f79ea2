package main

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/rules"
)

func TestRunCmd_Args(t *testing.T) {
	cmd := (&cli{}).runCmd()

	assert.Error(t, cmd.Args(cmd, nil), "needs ids or --all")
	assert.NoError(t, cmd.Args(cmd, []string{uuid.NewString()}))

	require.NoError(t, cmd.Flags().Set("all", "true"))
	assert.NoError(t, cmd.Args(cmd, nil))
	assert.Error(t, cmd.Args(cmd, []string{uuid.NewString()}), "ids and --all are exclusive")
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"migrate", "run", "projects", "rules", "runs"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	cmd, _, err := root.Find([]string{"migrate", "status"})
	require.NoError(t, err)
	assert.Equal(t, "status", cmd.Name())
}

func TestOutcomeTable(t *testing.T) {
	outcomes := []runOutcome{
		{Name: "A", Run: &core.Run{Status: core.RunSucceeded, RowCount: 10, ColumnCount: 4, Diagnostics: []string{"x"}, ArtifactFilename: "A-2026-03-05-pr.xlsx"}},
		{Name: "B", Run: &core.Run{Status: core.RunFailed}, Err: core.ErrProjectNotFound},
		{Name: "C", Err: core.ErrTooManyRuns},
	}

	data := outcomeTable(outcomes)
	require.Len(t, data, 4)
	assert.Equal(t, []string{"A", "succeeded", "10", "4", "1", "A-2026-03-05-pr.xlsx"}, data[1])
	assert.Equal(t, "failed", data[2][1])
	assert.Contains(t, data[2][5], "PRJ001")
	assert.Equal(t, "not started", data[3][1])
	assert.Contains(t, data[3][5], "RUN001")
}

func TestSummarize(t *testing.T) {
	assert.NoError(t, summarize([]runOutcome{{Name: "A"}}))

	err := summarize([]runOutcome{{Name: "A"}, {Name: "B", Err: errors.New("boom")}})
	require.Error(t, err)
	assert.Equal(t, "1 of 2 projects failed", err.Error())
}

func TestRuleTable(t *testing.T) {
	records := []core.RuleRecord{
		{Rule: rules.Rule{OrderKey: 1, Kind: rules.KindMultiple, SourcePrefix: "P5_", SourceStartLabel: "1", SourceEndLabel: "4", DestPrefix: "P5R", DestRange: &rules.Range{Start: 1, End: 3}}},
		{Rule: rules.Rule{OrderKey: 2, Kind: rules.KindRename, SourcePrefix: "Q9", DestPrefix: "Edad"}},
	}

	data := ruleTable(records)
	require.Len(t, data, 3)
	assert.Equal(t, []string{"1", "MULTIPLE", "P5_1..P5_4", "P5R1..P5R3"}, data[1][:4])
	assert.Equal(t, []string{"2", "RENAME", "Q9", "Edad"}, data[2][:4])
}

func TestRunTable(t *testing.T) {
	start := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)

	data := runTable([]core.Run{
		{Status: core.RunSucceeded, StartedAt: start, FinishedAt: &end, InterviewCount: 3, RowCount: 3, ColumnCount: 2, ArtifactFilename: "A.xlsx", Diagnostics: []string{"new column added: P5R4"}},
		{Status: core.RunFailed, StartedAt: start, FinishedAt: &end, ErrorCode: "COL001", ErrorMessage: "column not found"},
	})

	require.Len(t, data, 3)
	assert.Equal(t, "1.5s", data[1][2])
	assert.Equal(t, "A.xlsx new column added: P5R4", data[1][6])
	assert.Equal(t, "COL001 column not found", data[2][6])
}
