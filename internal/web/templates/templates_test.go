package templates

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/rules"
)

func TestErrorAlert_Escapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorAlert(`bad <input>`, "retry & wait", "VAL001").Render(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "bad &lt;input&gt;")
	assert.Contains(t, out, "retry &amp; wait")
	assert.Contains(t, out, "Code: VAL001")
}

func TestErrorPage_HasLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorPage("Project not found", "", "PRJ001").Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "<!DOCTYPE html>")
	assert.Contains(t, buf.String(), "PRJ001")
}

func TestDashboard_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dashboard(nil).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "No projects yet")
}

func TestProjectPage(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)
	project := core.Project{ID: uuid.New(), Name: "Encuesta", SurveyID: "S-1", ArtifactFilename: "Encuesta-2026-03-05-pr.xlsx"}

	params := ProjectPageParams{
		Project: project,
		Rules: []core.RuleRecord{
			{Rule: rules.Rule{OrderKey: 1, Kind: rules.KindMultiple, SourcePrefix: "P5_", SourceStartLabel: "1", SourceEndLabel: "3", DestPrefix: "P5R", DestRange: &rules.Range{Start: 1, End: 3}}},
			{Rule: rules.Rule{OrderKey: 2, Kind: rules.KindRename, SourcePrefix: "Q9", DestPrefix: "Edad"}},
		},
		Runs: []core.Run{
			{Status: core.RunFailed, ErrorCode: "COL001", ErrorMessage: "column not found: P7", StartedAt: now},
			{Status: core.RunSucceeded, InterviewCount: 40, RowCount: 40, ColumnCount: 12, Diagnostics: []string{"new column added: P5R4"}, StartedAt: now},
		},
		Busy: true,
	}

	var buf bytes.Buffer
	require.NoError(t, ProjectPage(params).Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, "P5_1 … P5_3")
	assert.Contains(t, out, "Q9")
	assert.Contains(t, out, "Edad")
	assert.Contains(t, out, "(COL001)")
	assert.Contains(t, out, "new column added: P5R4")
	assert.Contains(t, out, "2026-03-05 10:30")
	assert.Contains(t, out, "disabled")
	assert.Contains(t, out, "/projects/"+project.ID.String()+"/artifact")
}
