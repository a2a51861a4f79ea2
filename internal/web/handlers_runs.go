package web

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/logging"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// runResponse carries the recorded run, and the mapped error when it failed.
type runResponse struct {
	Run   *core.Run      `json:"run"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// handleRunProject runs a project synchronously and returns the run record.
// A failed run that was recorded still returns its record, with the status
// of its error code.
func (s *Server) handleRunProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	run, err := s.service.ProcessProject(withRunMetadata(r, "api"), projectID)
	if err != nil {
		if run == nil {
			respondError(w, r, err)
			return
		}
		msg := core.MapError(err)
		writeJSON(w, statusForCode(msg.Code), runResponse{
			Run: run,
			Error: &ErrorResponse{
				Error:   msg.Message,
				Message: msg.Message,
				Action:  msg.Action,
				Code:    msg.Code,
			},
		})
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Run: run})
}

// handleRunFromPage runs a project from its page and redirects back to it,
// where the outcome shows in the run history.
func (s *Server) handleRunFromPage(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	run, err := s.service.ProcessProject(withRunMetadata(r, "web"), projectID)
	if err != nil && run == nil {
		respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/projects/"+projectID.String(), http.StatusSeeOther)
}

// handleListRuns returns the most recent runs of a project, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	limit := min(parseIntParam(r, "limit", s.cfg.Run.HistoryLimit), maxRunHistory)
	runs, err := s.service.ListRuns(r.Context(), projectID, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleDownloadArtifact streams the latest workbook of a project.
func (s *Server) handleDownloadArtifact(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	artifact, err := s.service.GetArtifact(r.Context(), projectID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.Header().Set("Last-Modified", artifact.UpdatedAt.UTC().Format(http.TimeFormat))
	if _, err := w.Write(artifact.Data); err != nil {
		logging.FromContext(r.Context()).Warn("artifact download interrupted",
			"project_id", projectID,
			"error", err,
		)
	}
}
