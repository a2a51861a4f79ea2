package web

import (
	"net/http"

	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/web/templates"
)

type healthResponse struct {
	Status string                `json:"status"`
	Runs   core.RunLimiterStatus `json:"runs"`
}

// handleHealth reports liveness and run slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Runs:   s.service.Limiter().Status(),
	})
}

// handleDashboard lists the projects.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	projects, err := s.service.ListProjects(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Dashboard(projects).Render(r.Context(), w)
}

// handleProjectPage shows a project with its rules and recent runs.
func (s *Server) handleProjectPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	project, err := s.service.GetProject(ctx, projectID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	records, err := s.service.ListRules(ctx, projectID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	runs, err := s.service.ListRuns(ctx, projectID, s.cfg.Run.HistoryLimit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.ProjectPage(templates.ProjectPageParams{
		Project: *project,
		Rules:   records,
		Runs:    runs,
		Busy:    s.service.Limiter().Status().Available == 0,
	}).Render(ctx, w)
}
