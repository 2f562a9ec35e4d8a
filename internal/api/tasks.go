package api

import (
	"context"
	"fmt"
)

// Tasks lists all tasks visible to the caller.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var out []Task
	err := c.get(ctx, "/api/tasks/", &out)
	return out, err
}

// Task fetches one task by id.
func (c *Client) Task(ctx context.Context, id int) (Task, error) {
	var out Task
	err := c.get(ctx, fmt.Sprintf("/api/tasks/%d/", id), &out)
	return out, err
}

// CreateTask creates a task under a milestone.
func (c *Client) CreateTask(ctx context.Context, in TaskInput) (Task, error) {
	var out Task
	err := c.post(ctx, "/api/tasks/", in, &out)
	return out, err
}

// UpdateTask replaces a task's fields.
func (c *Client) UpdateTask(ctx context.Context, id int, in TaskInput) (Task, error) {
	var out Task
	err := c.put(ctx, fmt.Sprintf("/api/tasks/%d/", id), in, &out)
	return out, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/tasks/%d/", id))
}

type logTimeRequest struct {
	Hours float64 `json:"hours"`
}

// LogTime records hours worked against a task. Hours must be positive;
// fractional values are allowed (1.5 is an hour and a half).
func (c *Client) LogTime(ctx context.Context, taskID int, hours float64) (Task, error) {
	var out Task
	if hours <= 0 {
		return out, &Error{
			Kind:   KindValidation,
			Path:   fmt.Sprintf("/api/tasks/%d/log_time/", taskID),
			Detail: "hours must be greater than zero",
		}
	}
	err := c.post(ctx, fmt.Sprintf("/api/tasks/%d/log_time/", taskID), logTimeRequest{Hours: hours}, &out)
	return out, err
}

// MyTasks lists tasks assigned to the calling user.
func (c *Client) MyTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	err := c.get(ctx, "/api/user/tasks/", &out)
	return out, err
}
