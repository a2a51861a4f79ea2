package web

import (
	"net/http"
)

type projectRequest struct {
	Name     string `json:"name"`
	SurveyID string `json:"survey_id"`
}

// handleListProjects returns every project.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.service.ListProjects(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// handleCreateProject creates a project from {name, survey_id}.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	project, err := s.service.CreateProject(r.Context(), req.Name, req.SurveyID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	project, err := s.service.GetProject(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// handleUpdateProject replaces the name and survey id of a project.
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	project, err := s.service.UpdateProject(r.Context(), id, req.Name, req.SurveyID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// handleDeleteProject deletes a project with its rules and runs.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.service.DeleteProject(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
