package dashboard

import (
	"context"
	"fmt"

	"learnhub/models/course"
)

// Backend is the part of the REST backend the dashboard uses.
type Backend interface {
	Favorites(ctx context.Context) ([]course.Favorite, error)
	CreateFavorite(ctx context.Context, f course.Favorite) (course.Favorite, error)
	DeleteFavorite(ctx context.Context, id uint) error
	Enrollments(ctx context.Context) ([]course.Enrollment, error)
	Courses(ctx context.Context) ([]course.Course, error)
}

type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Favorites returns the user's favorites.
func (s *Service) Favorites(ctx context.Context, userID uint) ([]course.Favorite, error) {
	all, err := s.backend.Favorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	out := make([]course.Favorite, 0, len(all))
	for _, f := range all {
		if course.OwnedBy(f.UserID, userID) {
			out = append(out, f)
		}
	}
	return out, nil
}

// IsFavorite reports whether target is among the user's favorites.
func (s *Service) IsFavorite(ctx context.Context, userID uint, target course.Target) (bool, error) {
	favs, err := s.Favorites(ctx, userID)
	if err != nil {
		return false, err
	}
	_, ok := findFavorite(favs, target)
	return ok, nil
}

// ToggleFavorite adds target to the favorites when it is missing and removes
// it otherwise. It returns whether target is a favorite afterwards.
func (s *Service) ToggleFavorite(ctx context.Context, userID uint, target course.Target) (bool, error) {
	favs, err := s.Favorites(ctx, userID)
	if err != nil {
		return false, err
	}

	if fav, ok := findFavorite(favs, target); ok {
		if err := s.backend.DeleteFavorite(ctx, fav.ID); err != nil {
			return true, fmt.Errorf("remove favorite %d: %w", fav.ID, err)
		}
		return false, nil
	}

	if _, err := s.backend.CreateFavorite(ctx, course.Favorite{UserID: userID, Target: target}); err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return true, nil
}

// EnrolledCourse is an enrollment joined with its catalog entry when the
// enrollment points at a course.
type EnrolledCourse struct {
	course.Enrollment
	Course *course.Course `json:"course,omitempty"`
}

// Enrollments returns the user's enrollments, newest first as the backend sends them.
func (s *Service) Enrollments(ctx context.Context, userID uint) ([]EnrolledCourse, error) {
	all, err := s.backend.Enrollments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	catalog, err := s.backend.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	byID := make(map[uint]*course.Course, len(catalog))
	for i := range catalog {
		c := catalog[i]
		c.Lessons = nil
		byID[c.ID] = &c
	}

	out := make([]EnrolledCourse, 0, len(all))
	for _, e := range all {
		if !course.OwnedBy(e.UserID, userID) {
			continue
		}
		ec := EnrolledCourse{Enrollment: e}
		if e.CourseID != nil {
			ec.Course = byID[*e.CourseID]
		}
		out = append(out, ec)
	}
	return out, nil
}

// IsEnrolled reports whether the user has access to target.
func (s *Service) IsEnrolled(ctx context.Context, userID uint, target course.Target) (bool, error) {
	all, err := s.backend.Enrollments(ctx)
	if err != nil {
		return false, fmt.Errorf("load enrollments: %w", err)
	}
	for _, e := range all {
		if course.OwnedBy(e.UserID, userID) && e.Target.Same(target) {
			return true, nil
		}
	}
	return false, nil
}

func findFavorite(favs []course.Favorite, target course.Target) (course.Favorite, bool) {
	for _, f := range favs {
		if f.Target.Same(target) {
			return f, true
		}
	}
	return course.Favorite{}, false
}
