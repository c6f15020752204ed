package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"tasktrack/database"
	"tasktrack/logger"
	"tasktrack/models"

	"github.com/go-chi/chi/v5"
)

// parseTaskListQuery maps list query parameters onto a TaskListQuery.
// Unparsable numeric values are treated as absent; an unknown sort field is
// left alone, the query engine falls back to its default.
func parseTaskListQuery(r *http.Request) models.TaskListQuery {
	q := r.URL.Query()
	var query models.TaskListQuery

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = page
	}
	if pageSize, err := strconv.Atoi(q.Get("page_size")); err == nil {
		query.PageSize = pageSize
	}
	query.SortBy = q.Get("sort_by")
	query.SortOrder = q.Get("sort_order")

	if tags := q.Get("tags"); tags != "" {
		for _, name := range strings.Split(tags, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				query.Tags = append(query.Tags, name)
			}
		}
	}
	if category := q.Get("category"); category != "" {
		query.Category = &category
	}
	if isDoneStr := q.Get("is_done"); isDoneStr != "" {
		if isDone, err := strconv.ParseBool(isDoneStr); err == nil {
			query.IsDone = &isDone
		}
	}
	return query
}

// ListTasksHandler handles GET requests for the default (non-deleted) task
// listing.
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	page, err := database.ListTasks(parseTaskListQuery(r))
	if err != nil {
		logger.Error("ListTasksHandler: Error listing tasks: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// ListDeletedTasksHandler handles GET requests for the trash-can listing.
func ListDeletedTasksHandler(w http.ResponseWriter, r *http.Request) {
	page, err := database.ListDeletedTasks(parseTaskListQuery(r))
	if err != nil {
		logger.Error("ListDeletedTasksHandler: Error listing deleted tasks: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list deleted tasks")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// CreateTaskHandler handles POST requests to create a new task.
func CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var payload models.CreateTask
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Error("CreateTaskHandler: Error decoding request body: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	payload.Title = strings.TrimSpace(payload.Title)
	if payload.Title == "" {
		respondError(w, http.StatusBadRequest, "Task title cannot be empty")
		return
	}
	if payload.Repeat != "" && !models.ValidRepeat(payload.Repeat) {
		respondError(w, http.StatusBadRequest, "Invalid repeat value: "+payload.Repeat)
		return
	}

	task, err := database.CreateTask(payload)
	if err != nil {
		logger.Error("CreateTaskHandler: Error creating task '%s': %v", payload.Title, err)
		respondError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// GetTaskHandler handles GET requests for a single task by ID. Soft-deleted
// tasks are still returned here; only listings hide them.
func GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	task, err := database.GetTaskByID(taskID)
	if err != nil {
		if errors.Is(err, database.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "Task not found")
		} else {
			logger.Error("GetTaskHandler: Error fetching task %s: %v", taskID, err)
			respondError(w, http.StatusInternalServerError, "Failed to retrieve task")
		}
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// UpdateTaskHandler handles PUT requests applying a sparse patch to a task.
func UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var patch models.UpdateTask
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logger.Error("UpdateTaskHandler: Error decoding request body for task %s: %v", taskID, err)
		respondError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()
	patch.ID = taskID

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		respondError(w, http.StatusBadRequest, "Task title cannot be empty if provided")
		return
	}
	if patch.Repeat != nil && !models.ValidRepeat(*patch.Repeat) {
		respondError(w, http.StatusBadRequest, "Invalid repeat value: "+*patch.Repeat)
		return
	}

	task, err := database.UpdateTask(patch)
	if err != nil {
		if errors.Is(err, database.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "Task not found")
		} else {
			logger.Error("UpdateTaskHandler: Error updating task %s: %v", taskID, err)
			respondError(w, http.StatusInternalServerError, "Failed to update task")
		}
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// SoftDeleteTaskHandler handles DELETE requests moving a task to the trash.
func SoftDeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	if err := database.SoftDeleteTask(taskID); err != nil {
		if errors.Is(err, database.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "Task not found")
		} else {
			logger.Error("SoftDeleteTaskHandler: Error deleting task %s: %v", taskID, err)
			respondError(w, http.StatusInternalServerError, "Failed to delete task")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HardDeleteTaskHandler handles DELETE requests permanently removing a task
// and its tag associations.
func HardDeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	if err := database.HardDeleteTask(taskID); err != nil {
		if errors.Is(err, database.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "Task not found")
		} else {
			logger.Error("HardDeleteTaskHandler: Error deleting task %s: %v", taskID, err)
			respondError(w, http.StatusInternalServerError, "Failed to delete task")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreTaskHandler handles POST requests restoring a soft-deleted task.
func RestoreTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	if err := database.RestoreTask(taskID); err != nil {
		if errors.Is(err, database.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "Task not found")
		} else {
			logger.Error("RestoreTaskHandler: Error restoring task %s: %v", taskID, err)
			respondError(w, http.StatusInternalServerError, "Failed to restore task")
		}
		return
	}
	task, err := database.GetTaskByID(taskID)
	if err != nil {
		logger.Error("RestoreTaskHandler: Error fetching restored task %s: %v", taskID, err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve restored task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}
