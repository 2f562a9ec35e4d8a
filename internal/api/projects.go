package api

import (
	"context"
	"fmt"
)

// Projects lists every project visible to the caller.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var out []Project
	err := c.get(ctx, "/api/projects/", &out)
	return out, err
}

// Project fetches one project by id.
func (c *Client) Project(ctx context.Context, id int) (Project, error) {
	var out Project
	err := c.get(ctx, fmt.Sprintf("/api/projects/%d/", id), &out)
	return out, err
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (Project, error) {
	var out Project
	err := c.post(ctx, "/api/projects/", in, &out)
	return out, err
}

// UpdateProject replaces a project's fields.
func (c *Client) UpdateProject(ctx context.Context, id int, in ProjectInput) (Project, error) {
	var out Project
	err := c.put(ctx, fmt.Sprintf("/api/projects/%d/", id), in, &out)
	return out, err
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/projects/%d/", id))
}

// ProjectProgress returns the computed completion percentage.
func (c *Client) ProjectProgress(ctx context.Context, id int) (ProjectProgress, error) {
	var out ProjectProgress
	err := c.get(ctx, fmt.Sprintf("/api/projects/%d/progress/", id), &out)
	return out, err
}

// ProjectTotalHours returns the hours logged across the project.
func (c *Client) ProjectTotalHours(ctx context.Context, id int) (ProjectHours, error) {
	var out ProjectHours
	err := c.get(ctx, fmt.Sprintf("/api/projects/%d/total_hours/", id), &out)
	return out, err
}

// ProjectMembers lists the project's current members.
func (c *Client) ProjectMembers(ctx context.Context, projectID int) ([]User, error) {
	var out []User
	err := c.get(ctx, fmt.Sprintf("/api/projects/%d/members/", projectID), &out)
	return out, err
}

type addMemberRequest struct {
	UserID int `json:"user_id"`
}

// AddProjectMember adds a user to the project.
func (c *Client) AddProjectMember(ctx context.Context, projectID, userID int) error {
	return c.post(ctx, fmt.Sprintf("/api/projects/%d/members/", projectID), addMemberRequest{UserID: userID}, nil)
}

// RemoveProjectMember removes a user from the project.
func (c *Client) RemoveProjectMember(ctx context.Context, projectID, userID int) error {
	return c.delete(ctx, fmt.Sprintf("/api/projects/%d/members/%d/", projectID, userID))
}

// AvailableUsers lists users who can still be added to the project.
func (c *Client) AvailableUsers(ctx context.Context, projectID int) ([]User, error) {
	var out []User
	err := c.get(ctx, fmt.Sprintf("/api/projects/%d/available-users/", projectID), &out)
	return out, err
}
