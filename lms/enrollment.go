package lms

import (
	"context"
	"net/http"

	"learnhub/models/course"
)

func (c *Client) Enrollments(ctx context.Context) ([]course.Enrollment, error) {
	var out []course.Enrollment
	if err := c.do(c.request(ctx), http.MethodGet, "/enrollment/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}
