package models

// PaginationQuery carries the page/sort part of a list request. A page or
// page size of zero (or negative) means "no pagination": the full result set
// comes back as a single page.
type PaginationQuery struct {
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"` // "asc" or "desc"; anything else means desc
}

// TaskListQuery defines parameters for filtering task list queries.
// Tags is an intersection filter: a task matches only if it carries every
// listed tag.
type TaskListQuery struct {
	PaginationQuery
	Tags     []string `json:"tags,omitempty"`
	Category *string  `json:"category,omitempty"`
	IsDone   *bool    `json:"is_done,omitempty"`
}

// Page is a generic paginated result batch.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPage builds a paginated result, computing the page count from the total.
// A zero total still yields one (empty) page.
func NewPage[T any](data []T, total, page, pageSize int) Page[T] {
	totalPages := 1
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// AllPage wraps an unpaginated result set as a single page covering
// everything.
func AllPage[T any](data []T) Page[T] {
	return Page[T]{
		Data:       data,
		Total:      len(data),
		Page:       1,
		PageSize:   len(data),
		TotalPages: 1,
	}
}
