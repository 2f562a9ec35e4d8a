package api

import (
	"context"
	"fmt"
)

// Comments lists all comments visible to the caller.
func (c *Client) Comments(ctx context.Context) ([]Comment, error) {
	var out []Comment
	err := c.get(ctx, "/api/comments/", &out)
	return out, err
}

// Comment fetches one comment by id.
func (c *Client) Comment(ctx context.Context, id int) (Comment, error) {
	var out Comment
	err := c.get(ctx, fmt.Sprintf("/api/comments/%d/", id), &out)
	return out, err
}

// CreateComment posts a comment, optionally linked to a task.
func (c *Client) CreateComment(ctx context.Context, in CommentInput) (Comment, error) {
	var out Comment
	err := c.post(ctx, "/api/comments/", in, &out)
	return out, err
}

// UpdateComment replaces a comment's content.
func (c *Client) UpdateComment(ctx context.Context, id int, in CommentInput) (Comment, error) {
	var out Comment
	err := c.put(ctx, fmt.Sprintf("/api/comments/%d/", id), in, &out)
	return out, err
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/comments/%d/", id))
}
