package models

import (
	"time"

	"github.com/google/uuid"
)

// Recurrence values accepted for Task.Repeat.
const (
	RepeatNever   = "never"
	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
	RepeatCustom  = "custom"
)

// ValidRepeat reports whether the given recurrence value is one of the
// accepted enumeration members.
func ValidRepeat(repeat string) bool {
	switch repeat {
	case RepeatNever, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatCustom:
		return true
	}
	return false
}

// Task is the to-do item aggregate: the persisted row plus its resolved tag
// names. Nullable columns (date, end-repeat policy, category) are pointers so
// absent and set-to-empty stay distinguishable in JSON.
type Task struct {
	ID             string   `json:"id" readOnly:"true"`
	Title          string   `json:"title" binding:"required"`
	Date           *int64   `json:"date,omitempty"` // epoch seconds
	Repeat         string   `json:"repeat"`
	EndRepeatType  *string  `json:"end_repeat_type,omitempty"`
	EndRepeatDate  *int64   `json:"end_repeat_date,omitempty"` // epoch seconds
	RemainingCount *int64   `json:"remaining_count,omitempty"`
	Content        string   `json:"content"`
	Tags           []string `json:"tags"`
	Category       *string  `json:"category,omitempty"`
	IsDone         bool     `json:"is_done"`
	IsDeleted      bool     `json:"is_deleted"`
	CreatedAt      int64    `json:"created_at" readOnly:"true"` // epoch seconds
	UpdatedAt      int64    `json:"updated_at" readOnly:"true"` // epoch seconds
}

// CreateTask is the request payload for creating a new task.
type CreateTask struct {
	Title          string   `json:"title" binding:"required"`
	Date           *int64   `json:"date,omitempty"`
	Repeat         string   `json:"repeat"`
	EndRepeatType  *string  `json:"end_repeat_type,omitempty"`
	EndRepeatDate  *int64   `json:"end_repeat_date,omitempty"`
	RemainingCount *int64   `json:"remaining_count,omitempty"`
	Content        string   `json:"content"`
	Tags           []string `json:"tags,omitempty"`
	Category       *string  `json:"category,omitempty"`
	IsDone         bool     `json:"is_done"`
}

// ToTask assigns a fresh identifier and creation timestamps, producing the
// aggregate that will be persisted. created_at and updated_at start equal.
func (c CreateTask) ToTask() Task {
	now := time.Now().Unix()
	repeat := c.Repeat
	if repeat == "" {
		repeat = RepeatNever
	}
	return Task{
		ID:             uuid.NewString(),
		Title:          c.Title,
		Date:           c.Date,
		Repeat:         repeat,
		EndRepeatType:  c.EndRepeatType,
		EndRepeatDate:  c.EndRepeatDate,
		RemainingCount: c.RemainingCount,
		Content:        c.Content,
		Tags:           c.Tags,
		Category:       c.Category,
		IsDone:         c.IsDone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// UpdateTask is a sparse patch: only non-nil fields are applied. A nil Tags
// slice leaves the association set alone; a non-nil (possibly empty) slice
// replaces it wholesale. For the nullable columns a present-but-zero value
// ("" or 0) clears the column to NULL.
type UpdateTask struct {
	ID             string   `json:"id" binding:"required"`
	Title          *string  `json:"title,omitempty"`
	Date           *int64   `json:"date,omitempty"`
	Repeat         *string  `json:"repeat,omitempty"`
	EndRepeatType  *string  `json:"end_repeat_type,omitempty"`
	EndRepeatDate  *int64   `json:"end_repeat_date,omitempty"`
	RemainingCount *int64   `json:"remaining_count,omitempty"`
	Content        *string  `json:"content,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Category       *string  `json:"category,omitempty"`
	IsDone         *bool    `json:"is_done,omitempty"`
	IsDeleted      *bool    `json:"is_deleted,omitempty"`
}
