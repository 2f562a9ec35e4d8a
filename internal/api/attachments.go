package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

// MaxUploadBytes caps attachment uploads at 10 MiB, matching the
// backend's limit so oversized files fail fast without a round trip.
const MaxUploadBytes = 10 << 20

// Attachments lists all attachments visible to the caller.
func (c *Client) Attachments(ctx context.Context) ([]Attachment, error) {
	var out []Attachment
	err := c.get(ctx, "/api/attachments/", &out)
	return out, err
}

// Attachment fetches one attachment record by id.
func (c *Client) Attachment(ctx context.Context, id int) (Attachment, error) {
	var out Attachment
	err := c.get(ctx, fmt.Sprintf("/api/attachments/%d/", id), &out)
	return out, err
}

// UploadAttachment streams a file to the backend as multipart form
// data, optionally linked to a task. The body is buffered (it is
// bounded by MaxUploadBytes) so the renewal path can resubmit it.
func (c *Client) UploadAttachment(ctx context.Context, filename string, content io.Reader, taskID *int) (Attachment, error) {
	var out Attachment
	body, contentType, err := encodeAttachment(filename, content, taskID)
	if err != nil {
		return out, err
	}
	err = c.exec(ctx, http.MethodPost, "/api/attachments/", body, contentType, &out)
	return out, err
}

// ReplaceAttachment swaps the stored file for an existing record.
func (c *Client) ReplaceAttachment(ctx context.Context, id int, filename string, content io.Reader, taskID *int) (Attachment, error) {
	var out Attachment
	body, contentType, err := encodeAttachment(filename, content, taskID)
	if err != nil {
		return out, err
	}
	err = c.exec(ctx, http.MethodPut, fmt.Sprintf("/api/attachments/%d/", id), body, contentType, &out)
	return out, err
}

// DeleteAttachment removes an attachment.
func (c *Client) DeleteAttachment(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/attachments/%d/", id))
}

func encodeAttachment(filename string, content io.Reader, taskID *int) ([]byte, string, error) {
	if filename == "" {
		return nil, "", &Error{Kind: KindValidation, Path: "/api/attachments/", Detail: "filename is required"}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("encode attachment: %w", err)
	}
	// Read one byte past the cap to detect oversized input.
	n, err := io.Copy(part, io.LimitReader(content, MaxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read attachment: %w", err)
	}
	if n > MaxUploadBytes {
		return nil, "", &Error{
			Kind:   KindValidation,
			Path:   "/api/attachments/",
			Detail: fmt.Sprintf("file exceeds the %d MiB upload limit", MaxUploadBytes>>20),
		}
	}
	if taskID != nil {
		if err := w.WriteField("task", strconv.Itoa(*taskID)); err != nil {
			return nil, "", fmt.Errorf("encode attachment: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode attachment: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
