package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/rules"
)

// ruleRequest is the body of a rule creation. Kind accepts the same labels
// as rules.ParseKind, Spanish ones included.
type ruleRequest struct {
	OrderKey         int          `json:"order_key"`
	Kind             string       `json:"kind"`
	SourcePrefix     string       `json:"source_prefix"`
	SourceStartLabel string       `json:"source_start_label"`
	SourceEndLabel   string       `json:"source_end_label"`
	DestPrefix       string       `json:"dest_prefix"`
	DestRange        *rules.Range `json:"dest_range,omitempty"`
}

func (req ruleRequest) rule() (rules.Rule, error) {
	kind, err := rules.ParseKind(req.Kind)
	if err != nil {
		return rules.Rule{}, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	return rules.Rule{
		OrderKey:         req.OrderKey,
		Kind:             kind,
		SourcePrefix:     req.SourcePrefix,
		SourceStartLabel: req.SourceStartLabel,
		SourceEndLabel:   req.SourceEndLabel,
		DestPrefix:       req.DestPrefix,
		DestRange:        req.DestRange,
	}, nil
}

// handleListRules returns a project's rules in execution order.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	records, err := s.service.ListRules(r.Context(), projectID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleCreateRule appends a rule to a project. An order_key of 0 places it
// after the existing rules.
func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req ruleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	rule, err := req.rule()
	if err != nil {
		respondError(w, r, err)
		return
	}

	record, err := s.service.CreateRule(r.Context(), projectID, rule)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	ruleID, err := uuidParam(r, "ruleID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.service.DeleteRule(r.Context(), projectID, ruleID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
