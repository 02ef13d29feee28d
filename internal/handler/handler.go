package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clothing-store/internal/middleware"
	"clothing-store/internal/model"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	maxBodyBytes = 1 << 20
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps err to a status code. Domain errors carry their message to
// the client; anything else is logged and reported as an internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	requestID := chimw.GetReqID(r.Context())

	de, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().Err(err).Str("request_id", requestID).Str("path", r.URL.Path).Msg("handler error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:         model.ErrCodeInternalError,
			Message:       "An unexpected error occurred",
			CorrelationID: requestID,
		})
		return
	}

	status := http.StatusBadRequest
	switch de.Kind {
	case model.KindNotFound:
		status = http.StatusNotFound
	case model.KindForbidden:
		status = http.StatusForbidden
	case model.KindConflict:
		status = http.StatusConflict
	case model.KindUnauthorized:
		status = http.StatusUnauthorized
	}

	logger.Debug().Str("code", de.Code).Int("status", status).Str("request_id", requestID).Msg("request rejected")
	writeJSON(w, status, model.ErrorResponse{
		Error:         de.Code,
		Message:       de.Message,
		CorrelationID: requestID,
	})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.BadRequest(model.ErrCodeInvalidJSON, "Request body is required")
		}
		return model.BadRequest(model.ErrCodeInvalidJSON, "Invalid request body")
	}
	return nil
}

// uuidParam parses the named chi URL parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, model.BadRequest(model.ErrCodeMissingField, "%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.BadRequest(model.ErrCodeMissingField, "Invalid %s", name)
	}
	return id, nil
}

// pagination reads limit and offset from the query string.
func pagination(r *http.Request) (int, int, error) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, 0, model.BadRequest(model.ErrCodeMissingField, "invalid limit parameter")
		}
		limit = min(v, maxLimit)
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, model.BadRequest(model.ErrCodeMissingField, "invalid offset parameter")
		}
		offset = v
	}

	return limit, offset, nil
}

// actor returns the caller resolved by the identity middleware.
func actor(r *http.Request) (model.Actor, error) {
	a, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return model.Actor{}, model.ErrIdentityRequired
	}
	return a, nil
}
