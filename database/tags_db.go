package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"tasktrack/logger"
	"tasktrack/models"
	"time"

	"github.com/google/uuid"
)

// ErrTagNotFound is returned when a tag lookup or delete targets a missing row.
var ErrTagNotFound = errors.New("tag not found")

// GetOrCreateTag returns the tag with the given exact name, inserting it
// first if it does not exist yet. The insert uses INSERT OR IGNORE against
// the UNIQUE(name) constraint and then re-reads, so concurrent callers racing
// on a brand-new name converge on a single row.
func GetOrCreateTag(name string) (models.Tag, error) {
	if DB == nil {
		return models.Tag{}, errors.New("database connection is not initialized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, errors.New("tag name cannot be empty")
	}

	_, err := DB.Exec("INSERT OR IGNORE INTO tags (id, name, created_at) VALUES (?, ?, ?)",
		uuid.NewString(), name, time.Now().Unix())
	if err != nil {
		logger.Error("GetOrCreateTag: Error inserting tag '%s': %v", name, err)
		return models.Tag{}, fmt.Errorf("inserting tag '%s': %w", name, err)
	}

	var tag models.Tag
	err = DB.QueryRow("SELECT id, name, created_at FROM tags WHERE name = ?", name).Scan(
		&tag.ID, &tag.Name, &tag.CreatedAt,
	)
	if err != nil {
		logger.Error("GetOrCreateTag: Error re-reading tag '%s': %v", name, err)
		return models.Tag{}, fmt.Errorf("re-reading tag '%s': %w", name, err)
	}
	return tag, nil
}

// GetTagByID retrieves a single tag by its ID, without a usage count.
func GetTagByID(id string) (models.Tag, error) {
	var tag models.Tag
	if DB == nil {
		return tag, errors.New("database connection is not initialized")
	}
	err := DB.QueryRow("SELECT id, name, created_at FROM tags WHERE id = ?", id).Scan(
		&tag.ID, &tag.Name, &tag.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tag, fmt.Errorf("tag %s: %w", id, ErrTagNotFound)
		}
		logger.Error("GetTagByID: Error querying tag %s: %v", id, err)
		return tag, fmt.Errorf("querying tag %s: %w", id, err)
	}
	return tag, nil
}

// GetAllTags retrieves all tags ordered by name, each annotated with the
// number of non-deleted tasks referencing it.
func GetAllTags() ([]models.Tag, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}
	query := `
		SELECT t.id, t.name, t.created_at, COUNT(ta.id) AS use_count
		FROM tags t
		LEFT JOIN task_tags tt ON tt.tag_id = t.id
		LEFT JOIN tasks ta ON ta.id = tt.task_id AND ta.is_deleted = 0
		GROUP BY t.id, t.name, t.created_at
		ORDER BY t.name ASC
	`
	rows, err := DB.Query(query)
	if err != nil {
		logger.Error("GetAllTags: Error querying tags: %v", err)
		return nil, fmt.Errorf("querying all tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UseCount); err != nil {
			logger.Error("GetAllTags: Error scanning tag row: %v", err)
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// GetTagsForTask retrieves the tag names associated with one task, ordered by
// name. A task without tags yields an empty (non-nil) slice.
func GetTagsForTask(taskID string) ([]string, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}
	query := `
		SELECT t.name
		FROM tags t
		JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id = ?
		ORDER BY t.name ASC
	`
	rows, err := DB.Query(query, taskID)
	if err != nil {
		logger.Error("GetTagsForTask: Error querying tags for task %s: %v", taskID, err)
		return nil, fmt.Errorf("querying tags for task: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			logger.Error("GetTagsForTask: Error scanning tag row: %v", err)
			return nil, fmt.Errorf("scanning tag row for task: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetTagsForTasks retrieves tag names for a list of task IDs in one query.
// Returns a map from task ID to its name-ordered tag list; tasks without tags
// are simply absent from the map.
func GetTagsForTasks(taskIDs []string) (map[string][]string, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}
	if len(taskIDs) == 0 {
		return make(map[string][]string), nil
	}

	placeholders := strings.Repeat("?,", len(taskIDs)-1) + "?"
	query := fmt.Sprintf(`
		SELECT tt.task_id, t.name
		FROM tags t
		JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id IN (%s)
		ORDER BY tt.task_id ASC, t.name ASC
	`, placeholders)

	args := make([]interface{}, 0, len(taskIDs))
	for _, id := range taskIDs {
		args = append(args, id)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		logger.Error("GetTagsForTasks: Error querying tags for tasks: %v", err)
		return nil, fmt.Errorf("querying tags for multiple tasks: %w", err)
	}
	defer rows.Close()

	tagsByTaskID := make(map[string][]string)
	for rows.Next() {
		var taskID, name string
		if err := rows.Scan(&taskID, &name); err != nil {
			logger.Error("GetTagsForTasks: Error scanning tag row: %v", err)
			return nil, fmt.Errorf("scanning tag row for tasks: %w", err)
		}
		tagsByTaskID[taskID] = append(tagsByTaskID[taskID], name)
	}
	return tagsByTaskID, rows.Err()
}

// SyncTaskTags replaces the full association set for a task: every existing
// association is dropped, then each of the new names is get-or-created and
// associated. This is a full replace, not a diff; callers wanting partial tag
// edits must merge first.
func SyncTaskTags(taskID string, names []string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}

	if _, err := DB.Exec("DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
		logger.Error("SyncTaskTags: Error clearing associations for task %s: %v", taskID, err)
		return fmt.Errorf("clearing tag associations for task %s: %w", taskID, err)
	}

	for _, name := range names {
		tag, err := GetOrCreateTag(name)
		if err != nil {
			return fmt.Errorf("syncing tag '%s' for task %s: %w", name, taskID, err)
		}
		_, err = DB.Exec("INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)", taskID, tag.ID)
		if err != nil {
			logger.Error("SyncTaskTags: Error associating tag '%s' with task %s: %v", name, taskID, err)
			return fmt.Errorf("associating tag '%s' with task %s: %w", name, taskID, err)
		}
	}
	return nil
}

// DeleteTagAndAssociations removes the tag's associations and then the tag
// row itself. Tasks carrying the tag are left alone.
func DeleteTagAndAssociations(tagID string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}

	if _, err := DB.Exec("DELETE FROM task_tags WHERE tag_id = ?", tagID); err != nil {
		logger.Error("DeleteTagAndAssociations: Error clearing associations for tag %s: %v", tagID, err)
		return fmt.Errorf("clearing associations for tag %s: %w", tagID, err)
	}

	result, err := DB.Exec("DELETE FROM tags WHERE id = ?", tagID)
	if err != nil {
		logger.Error("DeleteTagAndAssociations: Error deleting tag %s: %v", tagID, err)
		return fmt.Errorf("executing delete tag: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("tag %s: %w", tagID, ErrTagNotFound)
	}
	logger.Info("DeleteTagAndAssociations: Tag %s deleted.", tagID)
	return nil
}
