package lms

import (
	"context"
	"net/http"

	"learnhub/models/course"
)

func (c *Client) Notifications(ctx context.Context) ([]course.Notification, error) {
	var out []course.Notification
	if err := c.do(c.request(ctx), http.MethodGet, "/notification/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationsRead marks the whole feed of the caller as read.
func (c *Client) MarkNotificationsRead(ctx context.Context) error {
	return c.do(c.request(ctx), http.MethodPut, "/notification/mark-read", nil)
}
