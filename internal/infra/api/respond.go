package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/infra/logging"
)

type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// httpStatus maps domain errors to response codes.
func httpStatus(err error) int {
	var ve *ValidationError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func clientMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Not found"
	case errors.Is(err, domain.ErrForbidden):
		return "Forbidden"
	case errors.Is(err, domain.ErrInvalidState):
		return "Order is not in a state that allows this action"
	case errors.Is(err, domain.ErrOutOfStock):
		return "Item is out of stock"
	case errors.Is(err, domain.ErrAlreadyExists):
		return "Already exists"
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many requests, try again later"
	default:
		return "Invalid request"
	}
}

// fail writes err as a JSON error. Server errors are logged and never echoed.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := httpStatus(err)
	if code >= http.StatusInternalServerError {
		logging.With(r.Context(), s.log).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, code, envelope{"message": "Server error"})
		return
	}
	body := envelope{"message": clientMessage(err)}
	var ve *ValidationError
	if errors.As(err, &ve) {
		body["message"] = "Validation failed"
		body["errors"] = ve.Errors
	} else if errors.Is(err, domain.ErrConstraint) {
		logging.With(r.Context(), s.log).Warn().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request rejected by store")
	} else if code == http.StatusBadRequest && errors.Is(err, domain.ErrInvalidArgument) {
		body["error"] = err.Error()
	}
	writeJSON(w, code, body)
}
