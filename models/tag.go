package models

// Tag represents a named label, many-to-many with tasks. UseCount is derived
// at read time from non-deleted tasks and never stored.
type Tag struct {
	ID        string `json:"id" readOnly:"true"`
	Name      string `json:"name" binding:"required"`
	CreatedAt int64  `json:"created_at" readOnly:"true"` // epoch seconds
	UseCount  int64  `json:"use_count" readOnly:"true"`
}
