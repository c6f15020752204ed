package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"tasktrack/models"
)

func TestTagEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/tags", map[string]string{"name": "work"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tag: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Tag
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode tag: %v", err)
	}
	if created.ID == "" || created.Name != "work" {
		t.Fatalf("unexpected created tag: %+v", created)
	}

	// Posting the same name again returns the existing tag.
	rec = doJSON(t, router, http.MethodPost, "/tags", map[string]string{"name": "work"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("re-create tag: expected 201, got %d", rec.Code)
	}
	var again models.Tag
	if err := json.NewDecoder(rec.Body).Decode(&again); err != nil {
		t.Fatalf("decode tag: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("expected existing tag returned, got %q want %q", again.ID, created.ID)
	}

	rec = doJSON(t, router, http.MethodGet, "/tags/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get tag: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/tags", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list tags: expected 200, got %d", rec.Code)
	}
	var tags []models.Tag
	if err := json.NewDecoder(rec.Body).Decode(&tags); err != nil {
		t.Fatalf("decode tags: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected one tag, got %d", len(tags))
	}

	rec = doJSON(t, router, http.MethodDelete, "/tags/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete tag: expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodDelete, "/tags/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestCreateTagValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/tags", map[string]string{"name": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name: expected 400, got %d", rec.Code)
	}
}
