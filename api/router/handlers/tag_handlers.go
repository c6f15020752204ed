package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"tasktrack/database"
	"tasktrack/logger"

	"github.com/go-chi/chi/v5"
)

type createTagPayload struct {
	Name string `json:"name"`
}

// ListTagsHandler handles GET requests listing all tags with their live use
// counts.
func ListTagsHandler(w http.ResponseWriter, r *http.Request) {
	tags, err := database.GetAllTags()
	if err != nil {
		logger.Error("ListTagsHandler: Error listing tags: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list tags")
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

// CreateTagHandler handles POST requests creating (or returning an existing)
// tag by name.
func CreateTagHandler(w http.ResponseWriter, r *http.Request) {
	var payload createTagPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Error("CreateTagHandler: Error decoding request body: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		respondError(w, http.StatusBadRequest, "Tag name cannot be empty")
		return
	}

	tag, err := database.GetOrCreateTag(payload.Name)
	if err != nil {
		logger.Error("CreateTagHandler: Error creating tag '%s': %v", payload.Name, err)
		respondError(w, http.StatusInternalServerError, "Failed to create tag")
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

// GetTagHandler handles GET requests for a single tag by ID.
func GetTagHandler(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "tagID")
	tag, err := database.GetTagByID(tagID)
	if err != nil {
		if errors.Is(err, database.ErrTagNotFound) {
			respondError(w, http.StatusNotFound, "Tag not found")
		} else {
			logger.Error("GetTagHandler: Error fetching tag %s: %v", tagID, err)
			respondError(w, http.StatusInternalServerError, "Failed to retrieve tag")
		}
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

// DeleteTagHandler handles DELETE requests removing a tag and its
// associations. Tasks carrying the tag are not deleted.
func DeleteTagHandler(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "tagID")
	if err := database.DeleteTagAndAssociations(tagID); err != nil {
		if errors.Is(err, database.ErrTagNotFound) {
			respondError(w, http.StatusNotFound, "Tag not found")
		} else {
			logger.Error("DeleteTagHandler: Error deleting tag %s: %v", tagID, err)
			respondError(w, http.StatusInternalServerError, "Failed to delete tag")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
