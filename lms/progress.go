package lms

import (
	"context"
	"net/http"

	"learnhub/models/course"
)

// ListProgress returns every progress record the backend exposes to the caller.
// The backend does not filter; callers filter by user and course.
func (c *Client) ListProgress(ctx context.Context) ([]course.ProgressRecord, error) {
	var out []course.ProgressRecord
	if err := c.do(c.request(ctx), http.MethodGet, "/course_progress/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProgress(ctx context.Context, rec course.ProgressRecord) (course.ProgressRecord, error) {
	var out course.ProgressRecord
	if err := c.do(c.request(ctx).SetBody(rec), http.MethodPost, "/course_progress/create", &out); err != nil {
		return course.ProgressRecord{}, err
	}
	return withFallback(out, rec), nil
}

func (c *Client) UpdateProgress(ctx context.Context, id uint, rec course.ProgressRecord) (course.ProgressRecord, error) {
	var out course.ProgressRecord
	if err := c.do(c.request(ctx).SetBody(rec), http.MethodPut, idPath("/course_progress/update/%d", id), &out); err != nil {
		return course.ProgressRecord{}, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return withFallback(out, rec), nil
}

// withFallback fills an empty response body with what was sent.
func withFallback(got, sent course.ProgressRecord) course.ProgressRecord {
	if got.Status == "" {
		id := got.ID
		got = sent
		got.ID = id
	}
	return got
}
