package api

import (
	"context"
	"fmt"
)

// Milestones lists all milestones visible to the caller.
func (c *Client) Milestones(ctx context.Context) ([]Milestone, error) {
	var out []Milestone
	err := c.get(ctx, "/api/milestones/", &out)
	return out, err
}

// Milestone fetches one milestone by id.
func (c *Client) Milestone(ctx context.Context, id int) (Milestone, error) {
	var out Milestone
	err := c.get(ctx, fmt.Sprintf("/api/milestones/%d/", id), &out)
	return out, err
}

// CreateMilestone creates a milestone under a project.
func (c *Client) CreateMilestone(ctx context.Context, in MilestoneInput) (Milestone, error) {
	var out Milestone
	err := c.post(ctx, "/api/milestones/", in, &out)
	return out, err
}

// UpdateMilestone replaces a milestone's fields.
func (c *Client) UpdateMilestone(ctx context.Context, id int, in MilestoneInput) (Milestone, error) {
	var out Milestone
	err := c.put(ctx, fmt.Sprintf("/api/milestones/%d/", id), in, &out)
	return out, err
}

// DeleteMilestone removes a milestone.
func (c *Client) DeleteMilestone(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/milestones/%d/", id))
}
