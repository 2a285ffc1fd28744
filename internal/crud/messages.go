package crud

import (
	"errors"

	"github.com/otcheredev/lims-admin-console/internal/apiclient"
)

const (
	MsgUnexpected     = "An unexpected error occurred"
	MsgSessionExpired = "Your session has expired. Please sign in again."
	MsgInFlight       = "Please wait for the current change to finish"
)

// DisplayMessage picks the text shown in the error banner: the validation
// message, then the backend message, then session expiry, then a generic fallback.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	// an expired session may also carry the replayed 401 body
	if errors.Is(err, apiclient.ErrSessionExpired) {
		return MsgSessionExpired
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}

	if errors.Is(err, ErrMutationInFlight) {
		return MsgInFlight
	}

	return MsgUnexpected
}
