package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/campus-qa/internal/adapters/clients"
	"github.com/jsamuelsen/campus-qa/internal/domain"
)

// errorResponse accepts both {"error":{"code","message"}} and flat
// {"code","message"} bodies.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e *errorResponse) message() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// parseErrorResponse returns the message of an error body, or "".
func parseErrorResponse(body io.Reader) string {
	if body == nil {
		return ""
	}

	var resp errorResponse
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&resp); err != nil {
		return ""
	}

	return resp.message()
}

// mapHTTPError converts a transport error or non-2xx response into a
// domain error. backend names the remote in UnavailableError; key is the
// blob being accessed.
func mapHTTPError(resp *http.Response, clientErr error, backend, operation, key string) error {
	if clientErr != nil {
		switch {
		case errors.Is(clientErr, clients.ErrCircuitOpen):
			return domain.NewUnavailableError(backend, "circuit breaker open during "+operation)
		case errors.Is(clientErr, clients.ErrMaxRetriesExceeded):
			return domain.NewUnavailableError(backend, "max retries exceeded during "+operation)
		default:
			return domain.NewUnavailableError(backend, fmt.Sprintf("%s failed: %v", operation, clientErr))
		}
	}

	if resp == nil {
		return domain.NewUnavailableError(backend, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	msg := parseErrorResponse(resp.Body)
	if msg == "" {
		msg = fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NewNotFoundError(domain.EntityBlob, key)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.NewForbiddenError(operation, msg)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return domain.NewValidationError("", msg)
	default:
		// 429 and 5xx land here too
		return domain.NewUnavailableError(backend, msg)
	}
}
