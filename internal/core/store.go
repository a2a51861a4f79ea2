package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/JonMunkholm/surveybase/internal/database"
	"github.com/JonMunkholm/surveybase/internal/rules"
)

// Store is the persistence the service needs. PgStore is the PostgreSQL
// implementation; tests use an in-memory fake.
type Store interface {
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	CreateProject(ctx context.Context, name, surveyID string) (*Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, name, surveyID string) (*Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// LoadRules returns the project's rules in execution order.
	LoadRules(ctx context.Context, projectID uuid.UUID) (rules.Set, error)
	ListRules(ctx context.Context, projectID uuid.UUID) ([]RuleRecord, error)
	CreateRule(ctx context.Context, projectID uuid.UUID, r rules.Rule) (*RuleRecord, error)
	DeleteRule(ctx context.Context, projectID, ruleID uuid.UUID) error

	// StoreArtifact replaces the project's workbook.
	StoreArtifact(ctx context.Context, projectID uuid.UUID, data []byte, filename string) error
	GetArtifact(ctx context.Context, projectID uuid.UUID) (*Artifact, error)

	CreateRun(ctx context.Context, run *Run) error
	FinishRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, projectID uuid.UUID, limit int) ([]Run, error)
	PurgeRuns(ctx context.Context, before time.Time) (int64, error)
}

// PgStore implements Store on the generated queries.
type PgStore struct {
	q *db.Queries
}

// NewPgStore wraps a pool or transaction.
func NewPgStore(conn db.DBTX) *PgStore {
	return &PgStore{q: db.New(conn)}
}

func (s *PgStore) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.q.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]Project, 0, len(rows))
	for _, r := range rows {
		out = append(out, projectFromRow(withoutData(r.ID, r.Name, r.SurveyID, r.ArtifactFilename, r.ArtifactUpdatedAt, r.CreatedAt, r.UpdatedAt)))
	}
	return out, nil
}

func (s *PgStore) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	r, err := s.q.GetProject(ctx, pgUUID(id))
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	p := projectFromRow(withoutData(r.ID, r.Name, r.SurveyID, r.ArtifactFilename, r.ArtifactUpdatedAt, r.CreatedAt, r.UpdatedAt))
	return &p, nil
}

func (s *PgStore) CreateProject(ctx context.Context, name, surveyID string) (*Project, error) {
	r, err := s.q.CreateProject(ctx, db.CreateProjectParams{
		Name:     name,
		SurveyID: pgText(surveyID),
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	p := projectFromRow(withoutData(r.ID, r.Name, r.SurveyID, r.ArtifactFilename, r.ArtifactUpdatedAt, r.CreatedAt, r.UpdatedAt))
	return &p, nil
}

func (s *PgStore) UpdateProject(ctx context.Context, id uuid.UUID, name, surveyID string) (*Project, error) {
	r, err := s.q.UpdateProject(ctx, db.UpdateProjectParams{
		ID:       pgUUID(id),
		Name:     name,
		SurveyID: pgText(surveyID),
	})
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	p := projectFromRow(withoutData(r.ID, r.Name, r.SurveyID, r.ArtifactFilename, r.ArtifactUpdatedAt, r.CreatedAt, r.UpdatedAt))
	return &p, nil
}

func (s *PgStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	n, err := s.q.DeleteProject(ctx, pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *PgStore) LoadRules(ctx context.Context, projectID uuid.UUID) (rules.Set, error) {
	records, err := s.ListRules(ctx, projectID)
	if err != nil {
		return rules.Set{}, err
	}
	rs := make([]rules.Rule, len(records))
	for i, rec := range records {
		rs[i] = rec.Rule
	}
	return rules.NewSet(rs), nil
}

func (s *PgStore) ListRules(ctx context.Context, projectID uuid.UUID) ([]RuleRecord, error) {
	rows, err := s.q.ListRulesByProject(ctx, pgUUID(projectID))
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	out := make([]RuleRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := ruleFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *PgStore) CreateRule(ctx context.Context, projectID uuid.UUID, r rules.Rule) (*RuleRecord, error) {
	orderKey := int32(r.OrderKey)
	if orderKey == 0 {
		next, err := s.q.NextRuleOrderKey(ctx, pgUUID(projectID))
		if err != nil {
			return nil, fmt.Errorf("next rule order key: %w", err)
		}
		orderKey = next
	}

	params := db.CreateRuleParams{
		ProjectID:        pgUUID(projectID),
		OrderKey:         orderKey,
		Process:          string(r.Kind),
		SourcePrefix:     r.SourcePrefix,
		SourceStartLabel: r.SourceStartLabel,
		SourceEndLabel:   r.SourceEndLabel,
		DestPrefix:       r.DestPrefix,
	}
	if r.DestRange != nil {
		params.DestRangeStart = pgtype.Int4{Int32: int32(r.DestRange.Start), Valid: true}
		params.DestRangeEnd = pgtype.Int4{Int32: int32(r.DestRange.End), Valid: true}
	}

	row, err := s.q.CreateRule(ctx, params)
	if err != nil {
		if strings.Contains(err.Error(), "foreign key") {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("create rule: %w", err)
	}
	rec, err := ruleFromRow(row)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PgStore) DeleteRule(ctx context.Context, projectID, ruleID uuid.UUID) error {
	n, err := s.q.DeleteRule(ctx, db.DeleteRuleParams{ID: pgUUID(ruleID), ProjectID: pgUUID(projectID)})
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if n == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (s *PgStore) StoreArtifact(ctx context.Context, projectID uuid.UUID, data []byte, filename string) error {
	n, err := s.q.StoreProjectArtifact(ctx, db.StoreProjectArtifactParams{
		ID:               pgUUID(projectID),
		ArtifactFilename: pgText(filename),
		ArtifactData:     data,
	})
	if err != nil {
		return fmt.Errorf("store artifact: %w", err)
	}
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *PgStore) GetArtifact(ctx context.Context, projectID uuid.UUID) (*Artifact, error) {
	r, err := s.q.GetProjectArtifact(ctx, pgUUID(projectID))
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	if !r.ArtifactFilename.Valid || len(r.ArtifactData) == 0 {
		return nil, ErrArtifactNotFound
	}
	return &Artifact{
		Filename:  r.ArtifactFilename.String,
		Data:      r.ArtifactData,
		UpdatedAt: r.ArtifactUpdatedAt.Time,
	}, nil
}

func (s *PgStore) CreateRun(ctx context.Context, run *Run) error {
	row, err := s.q.CreateRun(ctx, db.CreateRunParams{
		ID:        pgUUID(run.ID),
		ProjectID: pgUUID(run.ProjectID),
		Status:    string(run.Status),
	})
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	run.StartedAt = row.StartedAt.Time
	return nil
}

func (s *PgStore) FinishRun(ctx context.Context, run *Run) error {
	diags := run.Diagnostics
	if diags == nil {
		diags = []string{}
	}
	err := s.q.FinishRun(ctx, db.FinishRunParams{
		ID:               pgUUID(run.ID),
		Status:           string(run.Status),
		InterviewCount:   int32(run.InterviewCount),
		RowCount:         int32(run.RowCount),
		ColumnCount:      int32(run.ColumnCount),
		Diagnostics:      diags,
		ArtifactFilename: pgText(run.ArtifactFilename),
		ErrorCode:        pgText(run.ErrorCode),
		ErrorMessage:     pgText(run.ErrorMessage),
	})
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func (s *PgStore) ListRuns(ctx context.Context, projectID uuid.UUID, limit int) ([]Run, error) {
	rows, err := s.q.ListRunsByProject(ctx, db.ListRunsByProjectParams{
		ProjectID: pgUUID(projectID),
		Limit:     int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	out := make([]Run, 0, len(rows))
	for _, r := range rows {
		out = append(out, runFromRow(r))
	}
	return out, nil
}

func (s *PgStore) PurgeRuns(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.q.DeleteRunsBefore(ctx, pgtype.Timestamptz{Time: before, Valid: true})
	if err != nil {
		return 0, fmt.Errorf("purge runs: %w", err)
	}
	return n, nil
}

// withoutData assembles the project columns every query except
// GetProjectArtifact returns.
func withoutData(id pgtype.UUID, name string, surveyID, filename pgtype.Text, artifactAt, createdAt, updatedAt pgtype.Timestamptz) db.Project {
	return db.Project{
		ID:                id,
		Name:              name,
		SurveyID:          surveyID,
		ArtifactFilename:  filename,
		ArtifactUpdatedAt: artifactAt,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}
}

func projectFromRow(r db.Project) Project {
	p := Project{
		ID:               uuid.UUID(r.ID.Bytes),
		Name:             r.Name,
		SurveyID:         r.SurveyID.String,
		ArtifactFilename: r.ArtifactFilename.String,
		CreatedAt:        r.CreatedAt.Time,
		UpdatedAt:        r.UpdatedAt.Time,
	}
	if r.ArtifactUpdatedAt.Valid {
		t := r.ArtifactUpdatedAt.Time
		p.ArtifactUpdatedAt = &t
	}
	return p
}

func ruleFromRow(r db.Rule) (RuleRecord, error) {
	kind, err := rules.ParseKind(r.Process)
	if err != nil {
		return RuleRecord{}, fmt.Errorf("rule %s: %w", uuid.UUID(r.ID.Bytes), err)
	}

	rule := rules.Rule{
		OrderKey:         int(r.OrderKey),
		Kind:             kind,
		SourcePrefix:     r.SourcePrefix,
		SourceStartLabel: r.SourceStartLabel,
		SourceEndLabel:   r.SourceEndLabel,
		DestPrefix:       r.DestPrefix,
	}
	if r.DestRangeStart.Valid && r.DestRangeEnd.Valid {
		rule.DestRange = &rules.Range{Start: int(r.DestRangeStart.Int32), End: int(r.DestRangeEnd.Int32)}
	}

	return RuleRecord{
		ID:        uuid.UUID(r.ID.Bytes),
		ProjectID: uuid.UUID(r.ProjectID.Bytes),
		Rule:      rule,
		CreatedAt: r.CreatedAt.Time,
	}, nil
}

func runFromRow(r db.Run) Run {
	run := Run{
		ID:               uuid.UUID(r.ID.Bytes),
		ProjectID:        uuid.UUID(r.ProjectID.Bytes),
		Status:           RunStatus(r.Status),
		InterviewCount:   int(r.InterviewCount),
		RowCount:         int(r.RowCount),
		ColumnCount:      int(r.ColumnCount),
		Diagnostics:      r.Diagnostics,
		ArtifactFilename: r.ArtifactFilename.String,
		ErrorCode:        r.ErrorCode.String,
		ErrorMessage:     r.ErrorMessage.String,
		StartedAt:        r.StartedAt.Time,
	}
	if r.FinishedAt.Valid {
		t := r.FinishedAt.Time
		run.FinishedAt = &t
	}
	return run
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// pgText maps "" to NULL.
func pgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func notFound(err, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}
