package api

import "context"

// HealthCheck probes the backend liveness endpoint. Public: no token
// required, and a stale token does not fail it.
func (c *Client) HealthCheck(ctx context.Context) (Health, error) {
	var out Health
	err := c.get(ctx, "/health/", &out)
	return out, err
}
