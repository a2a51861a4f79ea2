package web

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/rules"
)

// memStore is an in-memory core.Store.
type memStore struct {
	mu        sync.Mutex
	projects  map[uuid.UUID]*core.Project
	rules     map[uuid.UUID][]core.RuleRecord
	artifacts map[uuid.UUID]*core.Artifact
	runs      []core.Run
}

func newMemStore() *memStore {
	return &memStore{
		projects:  make(map[uuid.UUID]*core.Project),
		rules:     make(map[uuid.UUID][]core.RuleRecord),
		artifacts: make(map[uuid.UUID]*core.Artifact),
	}
}

func (m *memStore) ListProjects(ctx context.Context) ([]core.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetProject(ctx context.Context, id uuid.UUID) (*core.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, core.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) CreateProject(ctx context.Context, name, surveyID string) (*core.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	p := &core.Project{ID: uuid.New(), Name: name, SurveyID: surveyID, CreatedAt: now, UpdatedAt: now}
	m.projects[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *memStore) UpdateProject(ctx context.Context, id uuid.UUID, name, surveyID string) (*core.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, core.ErrProjectNotFound
	}
	p.Name, p.SurveyID = name, surveyID
	cp := *p
	return &cp, nil
}

func (m *memStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return core.ErrProjectNotFound
	}
	delete(m.projects, id)
	delete(m.rules, id)
	delete(m.artifacts, id)
	return nil
}

func (m *memStore) LoadRules(ctx context.Context, projectID uuid.UUID) (rules.Set, error) {
	recs, err := m.ListRules(ctx, projectID)
	if err != nil {
		return rules.Set{}, err
	}
	rs := make([]rules.Rule, len(recs))
	for i, rec := range recs {
		rs[i] = rec.Rule
	}
	return rules.NewSet(rs), nil
}

func (m *memStore) ListRules(ctx context.Context, projectID uuid.UUID) ([]core.RuleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.RuleRecord(nil), m.rules[projectID]...), nil
}

func (m *memStore) CreateRule(ctx context.Context, projectID uuid.UUID, r rules.Rule) (*core.RuleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[projectID]; !ok {
		return nil, core.ErrProjectNotFound
	}
	if r.OrderKey == 0 {
		r.OrderKey = len(m.rules[projectID]) + 1
	}
	rec := core.RuleRecord{ID: uuid.New(), ProjectID: projectID, Rule: r, CreatedAt: time.Now()}
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
	return core.ErrRuleNotFound
}

func (m *memStore) StoreArtifact(ctx context.Context, projectID uuid.UUID, data []byte, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.artifacts[projectID] = &core.Artifact{Filename: filename, Data: data, UpdatedAt: now}
	if p, ok := m.projects[projectID]; ok {
		p.ArtifactFilename = filename
		p.ArtifactUpdatedAt = &now
	}
	return nil
}

func (m *memStore) GetArtifact(ctx context.Context, projectID uuid.UUID) (*core.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[projectID]
	if !ok {
		return nil, core.ErrArtifactNotFound
	}
	return a, nil
}

func (m *memStore) CreateRun(ctx context.Context, run *core.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memStore) FinishRun(ctx context.Context, run *core.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.runs {
		if m.runs[i].ID == run.ID {
			m.runs[i] = *run
		}
	}
	return nil
}

func (m *memStore) ListRuns(ctx context.Context, projectID uuid.UUID, limit int) ([]core.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Run
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.runs[i].ProjectID == projectID {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

func (m *memStore) PurgeRuns(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}
