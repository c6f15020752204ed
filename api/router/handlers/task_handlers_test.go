package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"tasktrack/database"
	"tasktrack/models"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tasktrack.db")
	if err := database.InitDB(dbPath); err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() {
		if err := database.CloseDB(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})

	r := chi.NewRouter()
	RegisterTaskRoutes(r)
	RegisterTagRoutes(r)
	return r
}

func doJSON(t *testing.T, router chi.Router, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) models.Task {
	t.Helper()
	var task models.Task
	if err := json.NewDecoder(rec.Body).Decode(&task); err != nil {
		t.Fatalf("decode task response: %v", err)
	}
	return task
}

func TestTaskEndpointsLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/tasks", map[string]interface{}{
		"title": "Buy milk",
		"tags":  []string{"home", "errand"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeTask(t, rec)
	if created.ID == "" {
		t.Fatal("create: expected an id in the response")
	}
	if !reflect.DeepEqual(created.Tags, []string{"errand", "home"}) {
		t.Fatalf("create: expected sorted tags, got %v", created.Tags)
	}

	rec = doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/tasks?tags=errand", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var page models.Page[models.Task]
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if page.Total != 1 || len(page.Data) != 1 || page.Data[0].ID != created.ID {
		t.Fatalf("list: unexpected page %+v", page)
	}

	rec = doJSON(t, router, http.MethodPut, "/tasks/"+created.ID, map[string]interface{}{
		"title": "Buy oat milk",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeTask(t, rec)
	if updated.Title != "Buy oat milk" {
		t.Fatalf("update: expected patched title, got %q", updated.Title)
	}
	if !reflect.DeepEqual(updated.Tags, created.Tags) {
		t.Fatalf("update: expected untouched tags, got %v", updated.Tags)
	}

	rec = doJSON(t, router, http.MethodDelete, "/tasks/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("soft delete: expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/tasks/deleted", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list deleted: expected 200, got %d", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode trash listing: %v", err)
	}
	if page.Total != 1 || page.Data[0].ID != created.ID {
		t.Fatalf("list deleted: expected the trashed task, got %+v", page)
	}

	rec = doJSON(t, router, http.MethodPost, "/tasks/"+created.ID+"/restore", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore: expected 200, got %d", rec.Code)
	}
	restored := decodeTask(t, rec)
	if restored.IsDeleted {
		t.Fatal("restore: expected is_deleted cleared")
	}

	rec = doJSON(t, router, http.MethodDelete, "/tasks/"+created.ID+"/permanent", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("hard delete: expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after hard delete: expected 404, got %d", rec.Code)
	}
}

func TestTaskEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/tasks", map[string]interface{}{"title": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank title: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/tasks", map[string]interface{}{
		"title":  "bad repeat",
		"repeat": "yearly",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad repeat: expected 400, got %d", rec.Code)
	}

	created := decodeTask(t, doJSON(t, router, http.MethodPost, "/tasks", map[string]interface{}{"title": "ok"}))
	rec = doJSON(t, router, http.MethodPut, "/tasks/"+created.ID, map[string]interface{}{"title": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank patch title: expected 400, got %d", rec.Code)
	}
}

func TestTaskEndpointNotFound(t *testing.T) {
	router := newTestRouter(t)

	for _, tc := range []struct {
		method string
		target string
		body   interface{}
	}{
		{http.MethodGet, "/tasks/no-such-id", nil},
		{http.MethodPut, "/tasks/no-such-id", map[string]interface{}{"title": "x"}},
		{http.MethodDelete, "/tasks/no-such-id", nil},
		{http.MethodDelete, "/tasks/no-such-id/permanent", nil},
		{http.MethodPost, "/tasks/no-such-id/restore", nil},
	} {
		rec := doJSON(t, router, tc.method, tc.target, tc.body)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tc.method, tc.target, rec.Code)
		}
	}
}

func TestListEndpointPagination(t *testing.T) {
	router := newTestRouter(t)

	for _, title := range []string{"alpha", "bravo", "charlie"} {
		rec := doJSON(t, router, http.MethodPost, "/tasks", map[string]interface{}{"title": title})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201, got %d", title, rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/tasks?page=1&page_size=2&sort_by=title&sort_order=asc", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("paginated list: expected 200, got %d", rec.Code)
	}
	var page models.Page[models.Task]
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode paginated list: %v", err)
	}
	if page.Total != 3 || page.TotalPages != 2 || len(page.Data) != 2 {
		t.Fatalf("unexpected paginated page: %+v", page)
	}
	if page.Data[0].Title != "alpha" || page.Data[1].Title != "bravo" {
		t.Fatalf("expected title-ascending order, got %q, %q", page.Data[0].Title, page.Data[1].Title)
	}
}
