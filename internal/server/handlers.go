package server

import (
	"encoding/json"
	"net/http"
	"time"

	"checklist/internal/domain"
	apperrors "checklist/internal/errors"
	"checklist/internal/progress"
	"checklist/internal/validation"

	"github.com/dustin/go-humanize"
)

type taskResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Day       int    `json:"day"`
	Completed bool   `json:"completed"`
}

type addTaskRequest struct {
	Text string          `json:"text"`
	Day  json.RawMessage `json:"day"`
}

type progressResponse struct {
	Percentage float64 `json:"percentage"`
	Formatted  string  `json:"formatted"`
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	ChartURL   string  `json:"chart_url"`
}

type healthResponse struct {
	Status    string     `json:"status"`
	Dirty     bool       `json:"dirty"`
	LastSaved *time.Time `json:"last_saved,omitempty"`
	SavedAgo  string     `json:"saved_ago,omitempty"`
}

type errorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Dirty: s.tasks.Dirty()}
	if saved := s.tasks.LastSaved(); !saved.IsZero() {
		resp.LastSaved = &saved
		resp.SavedAgo = humanize.Time(saved)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.tasks.List()
	resp := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	var body addTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json", Code: "INVALID_JSON"})
		return
	}

	task, err := s.tasks.Add(r.Context(), body.Text, dayInput(body.Day))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.tasks.Toggle(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	tasks := s.tasks.List()
	if i := domain.IndexOf(tasks, id); i >= 0 {
		writeJSON(w, http.StatusOK, toTaskResponse(tasks[i]))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Remove(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	tasks := s.tasks.List()
	p := progress.CompletionPercentage(tasks)
	completed, total := progress.Counts(tasks)
	writeJSON(w, http.StatusOK, progressResponse{
		Percentage: p,
		Formatted:  progress.Format(p),
		Completed:  completed,
		Total:      total,
		ChartURL:   progress.ChartURL(s.chart, p),
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: apperrors.GetUserMessage(err), Code: apperrors.GetErrorCode(err)}

	status := http.StatusInternalServerError
	switch {
	case apperrors.IsErrorType(err, apperrors.ErrorTypeValidation):
		status = http.StatusBadRequest
		if ve, ok := validation.AsValidationError(err); ok {
			resp.Error = ve.GetUserFriendlyMessage()
			resp.Fields = ve.Errors
		}
	case apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound):
		status = http.StatusNotFound
	}

	if apperrors.ShouldLogError(err) {
		s.logger.Error("request failed", "code", resp.Code, "err", err)
	}
	writeJSON(w, status, resp)
}

// dayInput accepts the day as a JSON string or number.
func dayInput(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func toTaskResponse(t domain.Task) taskResponse {
	return taskResponse{ID: t.ID, Text: t.Text, Day: t.Day, Completed: t.Completed}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
