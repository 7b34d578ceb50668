package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("response encoding failed")
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.respond(w, r, status, errorBody{Error: msg, RequestID: RequestID(r.Context())})
}

// reportError maps adapter failures to HTTP statuses. Databases that are
// down, absent or not configured surface as 503 so the frontend can
// distinguish them from broken queries.
func (s *Server) reportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case adapter.IsNotConnected(err) || adapter.IsConnectionError(err) || adapter.IsConfigurationError(err):
		s.respondError(w, r, http.StatusServiceUnavailable, err.Error())
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("report failed")
		s.respondError(w, r, http.StatusInternalServerError, err.Error())
	}
}
