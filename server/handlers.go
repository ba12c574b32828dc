package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodyBytes    = 64 << 10
)

// CheckPermissionsHandler adds an existing portal user to the application's group
// and tells the front-end where to go next.
func (s *Server) CheckPermissionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckPermissionsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("Invalid check-permissions body")
			writeJSON(w, http.StatusBadRequest, Response{Message: "Invalid JSON"})
			return
		}
		log.Ctx(r.Context()).Info().Str("globalid", req.GlobalID).Msg("Processing request to add a user to a group")

		result := s.orchestrator.CheckPermissions(r.Context(), req)
		writeJSON(w, result.Status, result.Body)
	}
}

// SignupHandler creates a new portal account, adds it to the application's group
// and tells the front-end where to go next.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := decodeJSON(w, r, &req); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("Invalid signup body")
			writeJSON(w, http.StatusBadRequest, Response{Message: "Invalid JSON"})
			return
		}
		log.Ctx(r.Context()).Info().
			Str("username", req.Username).
			Str("email", req.Email).
			Str("globalid", req.GlobalID).
			Msg("Processing request to create a user")

		result := s.orchestrator.Signup(r.Context(), req)
		writeJSON(w, result.Status, result.Body)
	}
}

// PreflightHandler answers CORS preflight requests. Headers are set by CorsMiddleware.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to write response")
	}
}
