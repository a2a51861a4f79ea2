package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/JonMunkholm/surveybase/internal/engine"
	"github.com/JonMunkholm/surveybase/internal/logging"
	"github.com/JonMunkholm/surveybase/internal/metrics"
	"github.com/JonMunkholm/surveybase/internal/rules"
	"github.com/JonMunkholm/surveybase/internal/survey"
	"github.com/JonMunkholm/surveybase/internal/table"
)

// DefaultRunTimeout bounds a run when ServiceConfig.RunTimeout is zero.
const DefaultRunTimeout = 15 * time.Minute

// SurveyClient fetches interview data from the survey platform.
type SurveyClient interface {
	ListInterviewIDs(ctx context.Context, surveyID string) ([]string, error)
	FetchExport(ctx context.Context, surveyID string, ids []string) (*survey.Export, error)
}

// ReportWriter renders a transformed table and its diagnostics as a workbook.
type ReportWriter interface {
	Write(t *table.Table, diagnostics []string) ([]byte, error)
}

// ArtifactMirror keeps an extra copy of each workbook outside the database.
type ArtifactMirror interface {
	Put(ctx context.Context, projectID uuid.UUID, filename string, data []byte) error
}

// ServiceConfig wires the service's collaborators.
type ServiceConfig struct {
	Logger *slog.Logger
	Clock  clockwork.Clock
	Store  Store
	Report ReportWriter

	// Survey is nil when no API base URL is configured; runs then fail with
	// a ConfigurationError.
	Survey SurveyClient

	// Mirror is optional.
	Mirror ArtifactMirror

	Limiter    *RunLimiter
	Location   *time.Location
	RunTimeout time.Duration
}

func (cfg *ServiceConfig) Validate() error {
	if cfg.Store == nil {
		return errors.New("store is required")
	}
	if cfg.Report == nil {
		return errors.New("report writer is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Limiter == nil {
		cfg.Limiter = NewRunLimiter(DefaultMaxConcurrentRuns, DefaultRunWaitTime)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = DefaultRunTimeout
	}
	return nil
}

// Service provides the core business logic: project and rule management and
// the end-to-end project run.
type Service struct {
	log    *slog.Logger
	cfg    ServiceConfig
	engine *engine.Engine
}

// NewService creates a Service from cfg.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		log:    cfg.Logger,
		cfg:    cfg,
		engine: engine.New(cfg.Logger),
	}, nil
}

// Limiter exposes the run limiter for health reporting and shutdown drain.
func (s *Service) Limiter() *RunLimiter { return s.cfg.Limiter }

// ListProjects returns every project.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	return s.cfg.Store.ListProjects(ctx)
}

// GetProject returns one project or ErrProjectNotFound.
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.cfg.Store.GetProject(ctx, id)
}

// CreateProject adds a project. The survey id may be set later.
func (s *Service) CreateProject(ctx context.Context, name, surveyID string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	p, err := s.cfg.Store.CreateProject(ctx, name, strings.TrimSpace(surveyID))
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("project created", "project_id", p.ID, "name", p.Name)
	return p, nil
}

// UpdateProject changes a project's name and survey id.
func (s *Service) UpdateProject(ctx context.Context, id uuid.UUID, name, surveyID string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	return s.cfg.Store.UpdateProject(ctx, id, name, strings.TrimSpace(surveyID))
}

// DeleteProject removes a project with its rules and run history.
func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.cfg.Store.DeleteProject(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("project deleted", "project_id", id)
	return nil
}

// ListRules returns the project's rules in execution order.
func (s *Service) ListRules(ctx context.Context, projectID uuid.UUID) ([]RuleRecord, error) {
	return s.cfg.Store.ListRules(ctx, projectID)
}

// CreateRule validates and stores a rule. An OrderKey of zero appends the
// rule after the project's last one.
func (s *Service) CreateRule(ctx context.Context, projectID uuid.UUID, r rules.Rule) (*RuleRecord, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.cfg.Store.CreateRule(ctx, projectID, r)
}

// DeleteRule removes one rule from a project.
func (s *Service) DeleteRule(ctx context.Context, projectID, ruleID uuid.UUID) error {
	return s.cfg.Store.DeleteRule(ctx, projectID, ruleID)
}

// ListRuns returns the most recent runs of a project, newest first.
func (s *Service) ListRuns(ctx context.Context, projectID uuid.UUID, limit int) ([]Run, error) {
	return s.cfg.Store.ListRuns(ctx, projectID, limit)
}

// GetArtifact returns the project's latest workbook.
func (s *Service) GetArtifact(ctx context.Context, projectID uuid.UUID) (*Artifact, error) {
	return s.cfg.Store.GetArtifact(ctx, projectID)
}

// ProcessProject runs the full pipeline for one project: fetch every
// interview from the survey platform, apply the project's rules, render the
// workbook and store it on the project. The attempt is recorded in the run
// history whatever the outcome, except when no run slot could be acquired.
//
// The returned Run is non-nil whenever a run record was created.
func (s *Service) ProcessProject(ctx context.Context, projectID uuid.UUID) (*Run, error) {
	project, err := s.cfg.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	release, err := s.cfg.Limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	run := &Run{
		ID:        uuid.New(),
		ProjectID: project.ID,
		Status:    RunRunning,
		StartedAt: s.cfg.Clock.Now(),
	}
	if err := s.cfg.Store.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	log := logging.WithFields(ctx,
		"run_id", run.ID,
		"project_id", project.ID,
		"survey_id", project.SurveyID,
		"trigger", TriggerFromContext(ctx),
	)
	log.Info("run started")

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	runErr := s.execute(runCtx, log, project, run)
	cancel()

	finished := s.cfg.Clock.Now()
	run.FinishedAt = &finished
	if runErr != nil {
		msg := MapError(runErr)
		run.Status = RunFailed
		run.ErrorCode = msg.Code
		run.ErrorMessage = runErr.Error()
	} else {
		run.Status = RunSucceeded
	}

	// the history entry must land even when the caller has gone away
	if err := s.cfg.Store.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		log.Error("failed to record run", "error", err)
	}
	metrics.RecordRun(string(run.Status), run.Duration(), len(run.Diagnostics))

	if runErr != nil {
		log.Error("run failed",
			"error", runErr,
			"error_code", run.ErrorCode,
			"diagnostics", len(run.Diagnostics),
		)
		return run, runErr
	}

	log.Info("run completed",
		"interviews", run.InterviewCount,
		"rows", run.RowCount,
		"columns", run.ColumnCount,
		"diagnostics", len(run.Diagnostics),
		"artifact", run.ArtifactFilename,
		"duration_ms", run.Duration().Milliseconds(),
	)
	return run, nil
}

// execute is the pipeline proper. It fills run as it goes so a failure still
// reports how far it got.
func (s *Service) execute(ctx context.Context, log *slog.Logger, project *Project, run *Run) error {
	if project.SurveyID == "" {
		return &ConfigurationError{Field: "survey_id", Reason: "is not set for this project"}
	}
	if s.cfg.Survey == nil {
		return &ConfigurationError{Field: "SURVEY_API_URL", Reason: "is not configured"}
	}

	ids, err := s.cfg.Survey.ListInterviewIDs(ctx, project.SurveyID)
	if err != nil {
		return fmt.Errorf("list interview ids: %w", err)
	}
	run.InterviewCount = len(ids)
	log.Debug("interview ids listed", "count", len(ids))

	export, err := s.cfg.Survey.FetchExport(ctx, project.SurveyID, ids)
	if err != nil {
		return fmt.Errorf("fetch export: %w", err)
	}

	tbl, err := export.Table()
	if err != nil {
		return err
	}

	set, err := s.cfg.Store.LoadRules(ctx, project.ID)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	log.Debug("export assembled", "rows", tbl.Rows(), "columns", tbl.Width(), "rules", set.Len())

	result, err := s.engine.Apply(tbl, set)
	if result != nil {
		run.Diagnostics = result.Diagnostics
	}
	if err != nil {
		return fmt.Errorf("apply rules: %w", err)
	}
	run.RowCount = result.Table.Rows()
	run.ColumnCount = result.Table.Width()

	data, err := s.cfg.Report.Write(result.Table, result.Diagnostics)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	filename := ArtifactFilename(project.Name, s.cfg.Clock.Now(), s.cfg.Location)
	if err := s.cfg.Store.StoreArtifact(ctx, project.ID, data, filename); err != nil {
		return err
	}
	run.ArtifactFilename = filename

	if s.cfg.Mirror != nil {
		if err := s.cfg.Mirror.Put(ctx, project.ID, filename, data); err != nil {
			// the database copy is authoritative
			log.Warn("artifact mirror failed", "error", err, "artifact", filename)
		}
	}
	return nil
}

// ArtifactFilename names a workbook "<project>-<YYYY-MM-DD>-pr.xlsx", dated
// in loc.
func ArtifactFilename(projectName string, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	name := strings.NewReplacer("/", "-", "\\", "-").Replace(strings.TrimSpace(projectName))
	return fmt.Sprintf("%s-%s-pr.xlsx", name, now.In(loc).Format("2006-01-02"))
}
