package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/custodia-labs/dailybit/internal/adapters/driven/validation"
	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error        string            `json:"error"`
	Fields       map[string]string `json:"fields,omitempty"`
	Collaborator string            `json:"collaborator,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to write response", zap.Error(err))
	}
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var code int

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedDocument):
		code = http.StatusBadRequest
		resp.Fields = validation.Fields(err)
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case domain.IsCollaboratorError(err):
		code = http.StatusBadGateway
		resp.Collaborator = domain.Collaborator(err)
	default:
		code = http.StatusInternalServerError
	}

	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Int("status", code), zap.Error(err))
	}
	s.writeJSON(w, code, resp)
}

// decode reads a JSON body, rejecting unknown trailing data.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return &validation.Error{Message: "malformed JSON body: " + err.Error()}
	}
	if dec.More() {
		return &validation.Error{Message: "malformed JSON body: unexpected trailing data"}
	}
	return nil
}
