package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"tasktrack/logger"
	"tasktrack/models"
	"time"
)

// ErrTaskNotFound is returned when a lookup, update or delete targets a task
// that does not exist. Callers should treat it as distinct from storage
// faults; during update it can also surface when a concurrent delete wins the
// race between the write and the read-back.
var ErrTaskNotFound = errors.New("task not found")

const taskColumns = "id, title, date, repeat, end_repeat_type, end_repeat_date, remaining_count, content, category, is_done, is_deleted, created_at, updated_at"

// taskListFilter is the pagination policy for the default (non-deleted) task
// listing. deletedTaskListFilter is the same policy with the base predicate
// flipped; the two exist as distinct variants because that one predicate is
// their only difference.
type taskListFilter struct {
	query models.TaskListQuery
}

type deletedTaskListFilter struct {
	query models.TaskListQuery
}

func (f taskListFilter) TableName() string  { return "tasks" }
func (f taskListFilter) PrimaryKey() string { return "id" }
func (f taskListFilter) BuildFilter() *FilterBuilder {
	return buildTaskFilter(0, f.query)
}
func (f taskListFilter) SortableFields() []string {
	return []string{"created_at", "updated_at", "title", "date"}
}
func (f taskListFilter) DefaultSortField() string { return "created_at" }

func (f deletedTaskListFilter) TableName() string  { return "tasks" }
func (f deletedTaskListFilter) PrimaryKey() string { return "id" }
func (f deletedTaskListFilter) BuildFilter() *FilterBuilder {
	return buildTaskFilter(1, f.query)
}
func (f deletedTaskListFilter) SortableFields() []string {
	return []string{"created_at", "updated_at", "title", "date"}
}
func (f deletedTaskListFilter) DefaultSortField() string { return "created_at" }

// buildTaskFilter renders the business filters shared by both listing
// variants on top of the given is_deleted base predicate.
func buildTaskFilter(isDeleted int, q models.TaskListQuery) *FilterBuilder {
	fb := NewFilterBuilder().Eq("is_deleted", isDeleted)

	if q.Category != nil {
		fb.Eq("category", *q.Category)
	}
	if q.IsDone != nil {
		fb.Eq("is_done", boolToInt(*q.IsDone))
	}

	// Multi-tag filtering is set intersection: a task matches only if it
	// carries every requested tag. The subquery groups associations per task
	// and keeps only groups covering all N distinct names, so the count query
	// stays a flat COUNT(*) under the same predicate. Duplicate names in the
	// request would inflate N and wrongly exclude everything, hence the
	// dedupe.
	if tags := dedupeNames(q.Tags); len(tags) > 0 {
		placeholders := strings.Repeat("?,", len(tags)-1) + "?"
		params := make([]interface{}, 0, len(tags)+1)
		for _, name := range tags {
			params = append(params, name)
		}
		params = append(params, len(tags))
		fb.Custom(fmt.Sprintf(`id IN (
			SELECT tt.task_id FROM task_tags tt
			JOIN tags t ON t.id = tt.tag_id
			WHERE t.name IN (%s)
			GROUP BY tt.task_id
			HAVING COUNT(DISTINCT t.name) = ?)`, placeholders), params...)
	}
	return fb
}

func dedupeNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// CreateTask persists a new task row and its tag associations, returning the
// fully hydrated aggregate. created_at and updated_at are set to the same
// instant.
func CreateTask(create models.CreateTask) (models.Task, error) {
	if DB == nil {
		return models.Task{}, errors.New("database connection is not initialized")
	}
	task := create.ToTask()

	stmt, err := DB.Prepare(`
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return models.Task{}, fmt.Errorf("preparing insert task statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		task.ID, task.Title, task.Date, task.Repeat,
		task.EndRepeatType, task.EndRepeatDate, task.RemainingCount,
		task.Content, task.Category,
		boolToInt(task.IsDone), boolToInt(task.IsDeleted),
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		logger.Error("CreateTask: Error executing insert for task '%s': %v", task.Title, err)
		return models.Task{}, fmt.Errorf("executing insert task: %w", err)
	}

	if err := SyncTaskTags(task.ID, task.Tags); err != nil {
		return models.Task{}, err
	}

	created, err := GetTaskByID(task.ID)
	if err != nil {
		return models.Task{}, err
	}
	logger.Info("CreateTask: Task %s ('%s') created.", created.ID, created.Title)
	return created, nil
}

// GetTaskByID retrieves a task by its ID regardless of the soft-delete flag,
// so items in the trash stay individually fetchable and editable.
func GetTaskByID(id string) (models.Task, error) {
	if DB == nil {
		return models.Task{}, errors.New("database connection is not initialized")
	}
	row := DB.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTaskRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
		}
		logger.Error("GetTaskByID: Error querying task %s: %v", id, err)
		return models.Task{}, fmt.Errorf("querying task %s: %w", id, err)
	}

	tags, err := GetTagsForTask(id)
	if err != nil {
		return models.Task{}, err
	}
	task.Tags = tags
	return task, nil
}

// ListTasks returns a page of non-deleted tasks matching the query, each
// hydrated with its name-ordered tag list.
func ListTasks(query models.TaskListQuery) (models.Page[models.Task], error) {
	return listTasksWith(taskListFilter{query: query}, query)
}

// ListDeletedTasks is the trash-can view: the same filters over soft-deleted
// rows only.
func ListDeletedTasks(query models.TaskListQuery) (models.Page[models.Task], error) {
	return listTasksWith(deletedTaskListFilter{query: query}, query)
}

func listTasksWith(filter PaginationFilter, query models.TaskListQuery) (models.Page[models.Task], error) {
	// Page size is bounded only when pagination is actually requested; the
	// "list all" fallback stays unbounded.
	if query.Page > 0 && query.PageSize > 100 {
		query.PaginationQuery.PageSize = 100
	}

	page, err := QueryPage(filter, taskColumns, query.PaginationQuery, scanTask)
	if err != nil {
		return models.Page[models.Task]{}, err
	}

	ids := make([]string, 0, len(page.Data))
	for _, task := range page.Data {
		ids = append(ids, task.ID)
	}
	tagsByID, err := GetTagsForTasks(ids)
	if err != nil {
		return models.Page[models.Task]{}, err
	}
	for i := range page.Data {
		names := tagsByID[page.Data[i].ID]
		if names == nil {
			names = []string{}
		}
		page.Data[i].Tags = names
	}
	return page, nil
}

// UpdateTask applies a sparse patch: only fields present in the patch are
// written, and updated_at is refreshed whenever at least one field (or the
// tag set) is present. A patch carrying nothing at all leaves the row
// untouched and returns the current state.
func UpdateTask(patch models.UpdateTask) (models.Task, error) {
	if DB == nil {
		return models.Task{}, errors.New("database connection is not initialized")
	}
	if patch.ID == "" {
		return models.Task{}, errors.New("task ID is required for update")
	}

	// Existence check up front so a missing target surfaces as not-found
	// rather than a zero-row update.
	if _, err := GetTaskByID(patch.ID); err != nil {
		return models.Task{}, err
	}

	var setClauses []string
	var args []interface{}

	if patch.Title != nil {
		setClauses = append(setClauses, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Date != nil {
		setClauses = append(setClauses, "date = ?")
		args = append(args, nullableInt64(*patch.Date))
	}
	if patch.Repeat != nil {
		setClauses = append(setClauses, "repeat = ?")
		args = append(args, *patch.Repeat)
	}
	if patch.EndRepeatType != nil {
		setClauses = append(setClauses, "end_repeat_type = ?")
		args = append(args, nullableString(*patch.EndRepeatType))
	}
	if patch.EndRepeatDate != nil {
		setClauses = append(setClauses, "end_repeat_date = ?")
		args = append(args, nullableInt64(*patch.EndRepeatDate))
	}
	if patch.RemainingCount != nil {
		setClauses = append(setClauses, "remaining_count = ?")
		args = append(args, nullableInt64(*patch.RemainingCount))
	}
	if patch.Content != nil {
		setClauses = append(setClauses, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.Category != nil {
		setClauses = append(setClauses, "category = ?")
		args = append(args, nullableString(*patch.Category))
	}
	if patch.IsDone != nil {
		setClauses = append(setClauses, "is_done = ?")
		args = append(args, boolToInt(*patch.IsDone))
	}
	if patch.IsDeleted != nil {
		setClauses = append(setClauses, "is_deleted = ?")
		args = append(args, boolToInt(*patch.IsDeleted))
	}

	syncTags := patch.Tags != nil
	if len(setClauses) == 0 && !syncTags {
		// Empty patch: no updated_at churn, just return the current state.
		return GetTaskByID(patch.ID)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now().Unix(), patch.ID)

	query := "UPDATE tasks SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	result, err := DB.Exec(query, args...)
	if err != nil {
		logger.Error("UpdateTask: Error executing update for task %s: %v. Query: %s", patch.ID, err, query)
		return models.Task{}, fmt.Errorf("executing task update: %w", err)
	}
	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		return models.Task{}, fmt.Errorf("task %s: %w", patch.ID, ErrTaskNotFound)
	}

	if syncTags {
		if err := SyncTaskTags(patch.ID, patch.Tags); err != nil {
			return models.Task{}, err
		}
	}

	// The write and this read-back are separate statements; a concurrent
	// hard-delete in between surfaces as not-found, which callers must treat
	// as a retryable anomaly.
	updated, err := GetTaskByID(patch.ID)
	if err != nil {
		return models.Task{}, err
	}
	logger.Info("UpdateTask: Task %s updated.", updated.ID)
	return updated, nil
}

// SoftDeleteTask marks a task deleted without removing it; associations stay
// intact so the task can be restored.
func SoftDeleteTask(id string) error {
	return setTaskDeleted(id, true)
}

// RestoreTask clears the soft-delete flag, returning the task to the default
// listing.
func RestoreTask(id string) error {
	return setTaskDeleted(id, false)
}

func setTaskDeleted(id string, deleted bool) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	result, err := DB.Exec("UPDATE tasks SET is_deleted = ?, updated_at = ? WHERE id = ?",
		boolToInt(deleted), time.Now().Unix(), id)
	if err != nil {
		logger.Error("setTaskDeleted: Error updating task %s: %v", id, err)
		return fmt.Errorf("updating task delete flag: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
	}
	return nil
}

// HardDeleteTask permanently removes the task row and its tag associations.
func HardDeleteTask(id string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}

	if _, err := DB.Exec("DELETE FROM task_tags WHERE task_id = ?", id); err != nil {
		logger.Error("HardDeleteTask: Error clearing associations for task %s: %v", id, err)
		return fmt.Errorf("clearing associations for task %s: %w", id, err)
	}

	result, err := DB.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		logger.Error("HardDeleteTask: Error deleting task %s: %v", id, err)
		return fmt.Errorf("executing delete task: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
	}
	logger.Info("HardDeleteTask: Task %s permanently deleted.", id)
	return nil
}

func scanTask(rows *sql.Rows) (models.Task, error) {
	return scanTaskRow(rows.Scan)
}

func scanTaskRow(scan func(dest ...interface{}) error) (models.Task, error) {
	var task models.Task
	var date, endRepeatDate, remainingCount sql.NullInt64
	var endRepeatType, category sql.NullString

	err := scan(
		&task.ID, &task.Title, &date, &task.Repeat,
		&endRepeatType, &endRepeatDate, &remainingCount,
		&task.Content, &category,
		&task.IsDone, &task.IsDeleted,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return task, err
	}

	if date.Valid {
		task.Date = &date.Int64
	}
	if endRepeatType.Valid {
		task.EndRepeatType = &endRepeatType.String
	}
	if endRepeatDate.Valid {
		task.EndRepeatDate = &endRepeatDate.Int64
	}
	if remainingCount.Valid {
		task.RemainingCount = &remainingCount.Int64
	}
	if category.Valid {
		task.Category = &category.String
	}
	return task, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt64(i int64) interface{} {
	if i == 0 {
		return nil
	}
	return i
}
