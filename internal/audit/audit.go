// Package audit journals user-visible actions (login, logout, token
// renewal, mutations) as structured log events.
package audit

import (
	"context"
	"errors"
	"strings"

	"planhub.org/internal/obs"
)

type ctxKey string

const (
	requestIDKey ctxKey = "audit_request_id"
	actorKey     ctxKey = "audit_actor"
)

// WithRequestID attaches a correlation id for subsequent audit events.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithActor attaches the acting username.
func WithActor(ctx context.Context, username string) context.Context {
	username = strings.TrimSpace(username)
	if username == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey, username)
}

// Log writes one audit event enriched with request and actor context.
func Log(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["type"] = "audit"
	if rid, ok := ctx.Value(requestIDKey).(string); ok && rid != "" {
		entry["request_id"] = rid
	}
	if actor, ok := ctx.Value(actorKey).(string); ok && actor != "" {
		entry["actor"] = actor
	}
	obs.Event(event, entry)
	return nil
}
