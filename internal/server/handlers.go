package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/report"
	"github.com/blackwell-systems/usermanual/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// writeServiceError maps service errors to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, assessment.ErrUnknownQuestion):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, assessment.ErrInvalidChoice),
		errors.Is(err, assessment.ErrInvalidIntensity),
		errors.Is(err, locale.ErrUnknownLanguage):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type phaseInfo struct {
	Phase       assessment.Phase `json:"phase"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
}

type questionsResponse struct {
	Language  string                `json:"language"`
	Phases    []phaseInfo           `json:"phases"`
	Questions []assessment.Question `json:"questions"`
}

// listQuestions handles GET /v1/questions?lang=&phase=
func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = s.opts.Language
	}
	b, err := locale.Get(lang)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := questionsResponse{Language: b.Lang()}
	phases := assessment.Phases()
	if p := r.URL.Query().Get("phase"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > len(phases) {
			writeError(w, http.StatusBadRequest, "phase must be 1-3")
			return
		}
		phases = []assessment.Phase{assessment.Phase(n)}
	}
	for _, p := range phases {
		resp.Phases = append(resp.Phases, phaseInfo{Phase: p, Title: b.PhaseTitle(p), Description: b.PhaseDescription(p)})
		resp.Questions = append(resp.Questions, b.Catalog().ByPhase(p)...)
	}
	writeJSON(w, http.StatusOK, resp)
}

type createSessionRequest struct {
	Language string `json:"language"`
}

// createSession handles POST /v1/sessions
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Language == "" {
		req.Language = s.opts.Language
	}
	sess, err := s.svc.Create(r.Context(), req.Language)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.svc.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getAnswers handles GET /v1/sessions/{id}/answers
func (s *Server) getAnswers(w http.ResponseWriter, r *http.Request) {
	answers, err := s.svc.Answers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answers)
}

type answerRequest struct {
	Choice    string `json:"choice"`
	Intensity int    `json:"intensity"`
}

// putAnswer handles PUT /v1/sessions/{id}/answers/{qid}
func (s *Server) putAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	qid, _ := strconv.Atoi(vars["qid"])

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	choice, err := assessment.ParseChoice(req.Choice)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if err := s.svc.SetAnswer(r.Context(), vars["id"], qid, choice, req.Intensity); err != nil {
		s.writeServiceError(w, err)
		return
	}
	sess, err := s.svc.Get(r.Context(), vars["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// deleteAnswer handles DELETE /v1/sessions/{id}/answers/{qid}
func (s *Server) deleteAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	qid, _ := strconv.Atoi(vars["qid"])
	if err := s.svc.ClearAnswer(r.Context(), vars["id"], qid); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getAnalysis handles GET /v1/sessions/{id}/analysis
func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Analyze(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) createSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Snapshot(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// listSnapshots handles GET /v1/sessions/{id}/snapshots?limit=
func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	snaps, err := s.svc.History(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

// getReport handles GET /v1/sessions/{id}/report?format=md|html
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	b, err := s.svc.Bundle(sess)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	result, err := s.svc.Analyze(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "md", "markdown":
		writeText(w, "text/markdown; charset=utf-8", report.Markdown(result, b, s.now()))
	case "html":
		out, err := report.HTML(result, b, s.now())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeText(w, "text/html; charset=utf-8", out)
	default:
		writeError(w, http.StatusBadRequest, "format must be md or html")
	}
}

// getPrompt handles GET /v1/sessions/{id}/prompt
func (s *Server) getPrompt(w http.ResponseWriter, r *http.Request) {
	pd, err := s.svc.Prompt(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pd)
}

// getNarrative handles GET /v1/sessions/{id}/narrative?format=md|html
func (s *Server) getNarrative(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	n, err := s.svc.Narrative(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "":
		writeJSON(w, http.StatusOK, n)
	case "md", "markdown":
		writeText(w, "text/markdown; charset=utf-8", n.Markdown)
	case "html":
		b, err := locale.Get(n.Language)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		out, err := report.NarrativeHTML(n.Markdown, b.Text("title"), b.Lang())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeText(w, "text/html; charset=utf-8", out)
	default:
		writeError(w, http.StatusBadRequest, "format must be md or html")
	}
}
