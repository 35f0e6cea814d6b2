package lms

import (
	"context"
	"net/http"

	"learnhub/models/course"
)

func (c *Client) Favorites(ctx context.Context) ([]course.Favorite, error) {
	var out []course.Favorite
	if err := c.do(c.request(ctx), http.MethodGet, "/favorites/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateFavorite(ctx context.Context, f course.Favorite) (course.Favorite, error) {
	var out course.Favorite
	if err := c.do(c.request(ctx).SetBody(f), http.MethodPost, "/favorites/create", &out); err != nil {
		return course.Favorite{}, err
	}
	if out.ID == 0 && out.CourseID == nil && out.TemplateID == nil {
		out = f
	}
	return out, nil
}

func (c *Client) DeleteFavorite(ctx context.Context, id uint) error {
	return c.do(c.request(ctx), http.MethodDelete, idPath("/favorites/delete/%d", id), nil)
}
