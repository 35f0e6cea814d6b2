package lms

import (
	"context"
	"net/http"

	"learnhub/models/course"
)

// Course fetches one course with its lessons and quizzes.
func (c *Client) Course(ctx context.Context, id uint) (*course.Course, error) {
	var out course.Course
	if err := c.do(c.request(ctx), http.MethodGet, idPath("/course/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Courses fetches the whole catalog.
func (c *Client) Courses(ctx context.Context) ([]course.Course, error) {
	var out []course.Course
	if err := c.do(c.request(ctx), http.MethodGet, "/course/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}
