package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"local_portal/internal/domain"
)

var (
	errInvalidPosition = errors.New("invalid ad position")
	errInvalidParam    = errors.New("invalid query parameter")
	errInvalidBody     = errors.New("invalid request body")
)

// errorBody is the JSON body of every error response.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type apiError struct {
	status int
	body   errorBody
}

func classify(err error) apiError {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return apiError{http.StatusBadRequest, errorBody{Code: "invalid_email", Message: "Wprowadź poprawny adres email"}}
	case errors.Is(err, domain.ErrInvalidCursor):
		return apiError{http.StatusBadRequest, errorBody{Code: "invalid_cursor", Message: "Nieprawidłowy kursor stronicowania"}}
	case errors.Is(err, domain.ErrInvalidSearchType):
		return apiError{http.StatusBadRequest, errorBody{Code: "invalid_search_type", Message: "Nieprawidłowy typ wyszukiwania"}}
	case errors.Is(err, errInvalidPosition):
		return apiError{http.StatusBadRequest, errorBody{Code: "invalid_position", Message: "Nieznane miejsce reklamowe"}}
	case errors.Is(err, errInvalidParam), errors.Is(err, errInvalidBody):
		return apiError{http.StatusBadRequest, errorBody{Code: "invalid_request", Message: err.Error()}}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return apiError{http.StatusConflict, errorBody{Code: "duplicate_email", Message: "Ten adres email jest już zapisany"}}
	case errors.Is(err, domain.ErrSlugTaken):
		return apiError{http.StatusConflict, errorBody{Code: "slug_taken", Message: "Adres jest już zajęty"}}
	case errors.Is(err, domain.ErrNotFound):
		return apiError{http.StatusNotFound, errorBody{Code: "not_found", Message: "Nie znaleziono"}}
	}
	return apiError{http.StatusServiceUnavailable, errorBody{
		Code:      "store_unavailable",
		Message:   "Usługa jest chwilowo niedostępna. Spróbuj ponownie.",
		Retryable: true,
	}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err onto the error taxonomy. Store failures are logged;
// their detail never reaches the client. Nothing is written once the
// client has gone away.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if errors.Is(err, context.Canceled) {
		logger.Debug("request canceled",
			"method", r.Method,
			"path", r.URL.Path,
		)
		return
	}
	apiErr := classify(err)
	if apiErr.status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, apiErr.status, apiErr.body)
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorBody{Code: "not_found", Message: "Nie znaleziono"})
}
