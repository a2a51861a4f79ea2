package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/surveybase/internal/rules"
	"github.com/JonMunkholm/surveybase/internal/survey"
	"github.com/JonMunkholm/surveybase/internal/table"
)

// memStore is an in-memory Store.
type memStore struct {
	mu        sync.Mutex
	projects  map[uuid.UUID]*Project
	rules     map[uuid.UUID][]RuleRecord
	artifacts map[uuid.UUID]*Artifact
	runs      []*Run
	purgedAt  time.Time

	finishErr error
}

func newMemStore() *memStore {
	return &memStore{
		projects:  make(map[uuid.UUID]*Project),
		rules:     make(map[uuid.UUID][]RuleRecord),
		artifacts: make(map[uuid.UUID]*Artifact),
	}
}

func (m *memStore) addProject(name, surveyID string, rs ...rules.Rule) *Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &Project{ID: uuid.New(), Name: name, SurveyID: surveyID}
	m.projects[p.ID] = p
	for _, r := range rs {
		m.rules[p.ID] = append(m.rules[p.ID], RuleRecord{ID: uuid.New(), ProjectID: p.ID, Rule: r})
	}
	return p
}

func (m *memStore) ListProjects(ctx context.Context) ([]Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memStore) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) CreateProject(ctx context.Context, name, surveyID string) (*Project, error) {
	return m.addProject(name, surveyID), nil
}

func (m *memStore) UpdateProject(ctx context.Context, id uuid.UUID, name, surveyID string) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	p.Name, p.SurveyID = name, surveyID
	cp := *p
	return &cp, nil
}

func (m *memStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return ErrProjectNotFound
	}
	delete(m.projects, id)
	delete(m.rules, id)
	return nil
}

func (m *memStore) LoadRules(ctx context.Context, projectID uuid.UUID) (rules.Set, error) {
	recs, _ := m.ListRules(ctx, projectID)
	rs := make([]rules.Rule, len(recs))
	for i, rec := range recs {
		rs[i] = rec.Rule
	}
	return rules.NewSet(rs), nil
}

func (m *memStore) ListRules(ctx context.Context, projectID uuid.UUID) ([]RuleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RuleRecord(nil), m.rules[projectID]...), nil
}

func (m *memStore) CreateRule(ctx context.Context, projectID uuid.UUID, r rules.Rule) (*RuleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[projectID]; !ok {
		return nil, ErrProjectNotFound
	}
	if r.OrderKey == 0 {
		r.OrderKey = len(m.rules[projectID]) + 1
	}
	rec := RuleRecord{ID: uuid.New(), ProjectID: projectID, Rule: r}
	m.rules[projectID] = append(m.rules[projectID], rec)
	return &rec, nil
}

func (m *memStore) DeleteRule(ctx context.Context, projectID, ruleID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.rules[projectID]
	for i, rec := range recs {
		if rec.ID == ruleID {
			m.rules[projectID] = append(recs[:i], recs[i+1:]...)
			return nil
		}
	}
	return ErrRuleNotFound
}

func (m *memStore) StoreArtifact(ctx context.Context, projectID uuid.UUID, data []byte, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[projectID] = &Artifact{Filename: filename, Data: data}
	if p, ok := m.projects[projectID]; ok {
		p.ArtifactFilename = filename
	}
	return nil
}

func (m *memStore) GetArtifact(ctx context.Context, projectID uuid.UUID) (*Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[projectID]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	return a, nil
}

func (m *memStore) CreateRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *run
	m.runs = append(m.runs, &cp)
	return nil
}

func (m *memStore) FinishRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finishErr != nil {
		return m.finishErr
	}
	for i, r := range m.runs {
		if r.ID == run.ID {
			cp := *run
			m.runs[i] = &cp
			return nil
		}
	}
	return errors.New("run not created")
}

func (m *memStore) ListRuns(ctx context.Context, projectID uuid.UUID, limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Run
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.runs[i].ProjectID == projectID {
			out = append(out, *m.runs[i])
		}
	}
	return out, nil
}

func (m *memStore) PurgeRuns(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgedAt = before
	var kept []*Run
	var n int64
	for _, r := range m.runs {
		if r.StartedAt.Before(before) && r.FinishedAt != nil {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.runs = kept
	return n, nil
}

// fakeSurvey serves a fixed export.
type fakeSurvey struct {
	ids     []string
	columns []string
	records []map[string]table.Value
	err     error

	calls int
}

func (f *fakeSurvey) ListInterviewIDs(ctx context.Context, surveyID string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

func (f *fakeSurvey) FetchExport(ctx context.Context, surveyID string, ids []string) (*survey.Export, error) {
	f.calls++
	return &survey.Export{Columns: f.columns, Records: f.records}, nil
}

// fakeReport records what it was asked to render.
type fakeReport struct {
	names       []string
	diagnostics []string
}

func (f *fakeReport) Write(t *table.Table, diagnostics []string) ([]byte, error) {
	f.names = t.Names()
	f.diagnostics = diagnostics
	return []byte("xlsx"), nil
}

type fakeMirror struct {
	err  error
	keys []string
}

func (f *fakeMirror) Put(ctx context.Context, projectID uuid.UUID, filename string, data []byte) error {
	f.keys = append(f.keys, projectID.String()+"/"+filename)
	return f.err
}
