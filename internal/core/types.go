// Package core provides the business logic for survey project runs.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/surveybase/internal/rules"
)

// Project is a survey whose answers are exported, transformed and stored as
// a workbook artifact.
type Project struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	SurveyID string    `json:"survey_id"`

	// ArtifactFilename is empty until the first successful run.
	ArtifactFilename  string     `json:"artifact_filename,omitempty"`
	ArtifactUpdatedAt *time.Time `json:"artifact_updated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RuleRecord is a stored rule with its identity.
type RuleRecord struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID uuid.UUID  `json:"project_id"`
	Rule      rules.Rule `json:"rule"`
	CreatedAt time.Time  `json:"created_at"`
}

// Artifact is the latest workbook produced for a project.
type Artifact struct {
	Filename  string
	Data      []byte
	UpdatedAt time.Time
}

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is one execution of ProcessProject, kept as history.
type Run struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Status    RunStatus `json:"status"`

	InterviewCount int      `json:"interview_count"`
	RowCount       int      `json:"row_count"`
	ColumnCount    int      `json:"column_count"`
	Diagnostics    []string `json:"diagnostics"`

	ArtifactFilename string `json:"artifact_filename,omitempty"`

	// ErrorCode and ErrorMessage are the mapped user message of a failed run.
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Duration is the wall time of a finished run, or zero while running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
