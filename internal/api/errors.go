package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// ErrSessionExpired is returned when token renewal itself is rejected.
// Both stored tokens are already purged by the time callers see it.
var ErrSessionExpired = errors.New("session expired")

// errNoRefresh is internal: a 401 arrived but there is no refresh token
// to renew with, so the original failure propagates.
var errNoRefresh = errors.New("no refresh token")

// Kind classifies an API failure. The client recovers exactly one kind
// locally (unauthorized, via renewal); everything else propagates.
type Kind int

const (
	// KindTransport: the request never produced a response.
	KindTransport Kind = iota
	// KindUnauthorized: 401 after renewal was impossible or exhausted.
	KindUnauthorized
	// KindForbidden: 403, surfaced verbatim, no recovery.
	KindForbidden
	// KindNotFound: 404.
	KindNotFound
	// KindValidation: other 4xx with a structured error body.
	KindValidation
	// KindServer: 5xx.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the typed failure the client returns instead of leaving
// callers to duck-type response shapes.
type Error struct {
	Kind   Kind
	Status int    // HTTP status, 0 for transport failures
	Path   string // request path
	Detail string // first structured message from the body, if any
	cause  error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %s", e.Kind, e.Path, e.Detail)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.cause)
	}
	return fmt.Sprintf("%s %s: status %d", e.Kind, e.Path, e.Status)
}

func (e *Error) Unwrap() error { return e.cause }

// Message returns the user-facing text, falling back when the backend
// sent nothing structured.
func (e *Error) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// IsUnauthorized reports whether err is an unrecovered 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// IsForbidden reports whether err is a 403.
func IsForbidden(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindForbidden
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

func transportError(path string, cause error) *Error {
	return &Error{Kind: KindTransport, Path: path, cause: cause}
}

func statusKind(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// decodeError turns a non-2xx response into a typed *Error, pulling the
// first available structured message out of the body. Django-style
// backends answer either {"detail": "..."} or {"field": ["msg", ...]}.
func decodeError(path string, resp *http.Response) *Error {
	apiErr := &Error{
		Kind:   statusKind(resp.StatusCode),
		Status: resp.StatusCode,
		Path:   path,
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return apiErr
	}
	apiErr.Detail = firstDetail(body)
	return apiErr
}

func firstDetail(body []byte) string {
	var shaped map[string]json.RawMessage
	if err := json.Unmarshal(body, &shaped); err != nil {
		return ""
	}
	if raw, ok := shaped["detail"]; ok {
		var detail string
		if json.Unmarshal(raw, &detail) == nil {
			return strings.TrimSpace(detail)
		}
	}
	// Field-keyed validation errors: pick the first field alphabetically
	// so the surfaced message is deterministic.
	keys := make([]string, 0, len(shaped))
	for k := range shaped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var msgs []string
		if json.Unmarshal(shaped[k], &msgs) == nil && len(msgs) > 0 {
			return fmt.Sprintf("%s: %s", k, strings.TrimSpace(msgs[0]))
		}
		var msg string
		if json.Unmarshal(shaped[k], &msg) == nil && msg != "" {
			return fmt.Sprintf("%s: %s", k, strings.TrimSpace(msg))
		}
	}
	return ""
}
