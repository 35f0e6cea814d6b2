package course

import "time"

// Target points at either a course or a template. Exactly one of the ids is set.
type Target struct {
	CourseID   *uint `json:"course_id,omitempty"`
	TemplateID *uint `json:"template_id,omitempty"`
}

// Same reports whether both targets point at the same course or template.
func (t Target) Same(o Target) bool {
	switch {
	case t.CourseID != nil && o.CourseID != nil:
		return *t.CourseID == *o.CourseID
	case t.TemplateID != nil && o.TemplateID != nil:
		return *t.TemplateID == *o.TemplateID
	}
	return false
}

// CourseTarget builds a Target for a course id.
func CourseTarget(id uint) Target {
	return Target{CourseID: &id}
}

// TemplateTarget builds a Target for a template id.
func TemplateTarget(id uint) Target {
	return Target{TemplateID: &id}
}

// Enrollment grants a user access to a course or a template.
type Enrollment struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"user_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Target
}

// Favorite marks a course or template on the user's dashboard.
type Favorite struct {
	ID     uint `json:"id"`
	UserID uint `json:"user_id"`
	Target
}
