package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/otcheredev/lims-admin-console/internal/apiclient"
	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/services"
	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Field  string            `json:"field,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func jsonResponse(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func jsonError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: crud.DisplayMessage(err)}

	var ve *crud.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if fields := apiErr.FieldErrors(); len(fields) > 0 {
			resp.Fields = make(map[string]string, len(fields))
			for k, msgs := range fields {
				if len(msgs) > 0 {
					resp.Fields[k] = msgs[0]
				}
			}
		}
	}
	jsonResponse(w, errorStatus(err), resp)
}

// errorStatus maps a screen or session error to the status returned to JSON clients
func errorStatus(err error) int {
	var ve *crud.ValidationError
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apiclient.ErrSessionExpired), errors.Is(err, services.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrUnknownScreen), errors.Is(err, crud.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, crud.ErrMutationInFlight), errors.Is(err, crud.ErrNoPendingDelete):
		return http.StatusConflict
	case errors.Is(err, crud.ErrNotSupported):
		return http.StatusMethodNotAllowed
	case errors.Is(err, crud.ErrClosed):
		return http.StatusGone
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
