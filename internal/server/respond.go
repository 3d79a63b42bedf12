package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"hoopsim/internal/domain"
	"hoopsim/internal/middleware"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain sentinels to HTTP status codes; anything
// unrecognized is a 500 with the detail kept in the log, not the body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidBracketSize):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrGameNotFound),
		errors.Is(err, domain.ErrSeriesNotFound),
		errors.Is(err, domain.ErrRunNotFound),
		errors.Is(err, domain.ErrTeamNotFound),
		errors.Is(err, domain.ErrPlayerNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrSeriesAlreadyCompleted),
		errors.Is(err, domain.ErrRoundNotComplete),
		errors.Is(err, domain.ErrTiedGame),
		errors.Is(err, domain.ErrTournamentComplete):
		status = http.StatusConflict
		message = err.Error()
	}

	event := s.logger.Warn()
	if status == http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("path", r.URL.Path).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Msg("request failed")

	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
