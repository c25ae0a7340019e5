package invitesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes. Clients branch on these, never on text.
const (
	ErrorCodeNotFound       = "NOT_FOUND"
	ErrorCodeExpired        = "EXPIRED"
	ErrorCodeRevoked        = "REVOKED"
	ErrorCodeExhausted      = "EXHAUSTED"
	ErrorCodeAlreadyLinked  = "ALREADY_LINKED"
	ErrorCodeTimeout        = "TIMEOUT"
	ErrorCodeUnauthorized   = "UNAUTHORIZED"
	ErrorCodeInvalidRequest = "INVALID_REQUEST"
	ErrorCodeRoleAlreadySet = "ROLE_ALREADY_SET"
	ErrorCodeServerError    = "SERVER_ERROR"
	ErrorCodeRateLimited    = "RATE_LIMITED"
)

// APIError is a non-2xx response from the invites service.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on Code alone, so errors.Is(err, invitesdk.ErrExpired) holds
// for any EXPIRED response whatever its status or description.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrNotFound       = &APIError{Code: ErrorCodeNotFound}
	ErrExpired        = &APIError{Code: ErrorCodeExpired}
	ErrRevoked        = &APIError{Code: ErrorCodeRevoked}
	ErrExhausted      = &APIError{Code: ErrorCodeExhausted}
	ErrAlreadyLinked  = &APIError{Code: ErrorCodeAlreadyLinked}
	ErrTimeout        = &APIError{Code: ErrorCodeTimeout}
	ErrUnauthorized   = &APIError{Code: ErrorCodeUnauthorized}
	ErrInvalidRequest = &APIError{Code: ErrorCodeInvalidRequest}
	ErrRoleAlreadySet = &APIError{Code: ErrorCodeRoleAlreadySet}
	ErrServerError    = &APIError{Code: ErrorCodeServerError}
	ErrRateLimited    = &APIError{Code: ErrorCodeRateLimited}
)

// IsTerminal reports whether a redemption error means this token will never
// succeed for this caller. TIMEOUT and transport failures are not terminal.
func IsTerminal(err error) bool {
	for _, e := range []*APIError{ErrNotFound, ErrExpired, ErrRevoked, ErrExhausted, ErrUnauthorized, ErrInvalidRequest} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// parseErrorResponse builds an *APIError from a non-2xx response. Bodies that
// are not in the service's error shape are classified by status alone.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Code: er.Error, Description: er.ErrorDescription}
	}

	code := ErrorCodeServerError
	switch resp.StatusCode {
	case http.StatusNotFound:
		code = ErrorCodeNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		code = ErrorCodeUnauthorized
	case http.StatusBadRequest:
		code = ErrorCodeInvalidRequest
	case http.StatusTooManyRequests:
		code = ErrorCodeRateLimited
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		code = ErrorCodeTimeout
	}
	return &APIError{StatusCode: resp.StatusCode, Code: code, Description: http.StatusText(resp.StatusCode)}
}
