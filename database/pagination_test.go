package database

import (
	"path/filepath"
	"testing"

	"tasktrack/models"
)

func newTestDB(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tasktrack.db")
	if err := InitDB(dbPath); err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() {
		if err := CloseDB(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
}

func TestFilterBuilderParamOrder(t *testing.T) {
	fb := NewFilterBuilder().
		Eq("is_deleted", 0).
		Ne("category", "inbox").
		Like("title", "%milk%").
		In("repeat", []interface{}{"daily", "weekly"}).
		Custom("id IN (SELECT task_id FROM task_tags WHERE tag_id = ?)", "t1")

	clause, params := fb.WhereClause()
	want := " WHERE is_deleted = ? AND category != ? AND title LIKE ? AND repeat IN (?,?) AND id IN (SELECT task_id FROM task_tags WHERE tag_id = ?)"
	if clause != want {
		t.Fatalf("clause mismatch:\n got  %q\n want %q", clause, want)
	}

	wantParams := []interface{}{0, "inbox", "%milk%", "daily", "weekly", "t1"}
	if len(params) != len(wantParams) {
		t.Fatalf("expected %d params, got %d: %#v", len(wantParams), len(params), params)
	}
	for i := range wantParams {
		if params[i] != wantParams[i] {
			t.Fatalf("param %d: got %#v, want %#v", i, params[i], wantParams[i])
		}
	}
}

func TestFilterBuilderEmpty(t *testing.T) {
	clause, params := NewFilterBuilder().WhereClause()
	if clause != "" {
		t.Fatalf("expected empty clause, got %q", clause)
	}
	if params != nil {
		t.Fatalf("expected nil params, got %#v", params)
	}
}

func TestFilterBuilderEmptyInIsNoop(t *testing.T) {
	clause, params := NewFilterBuilder().In("repeat", nil).WhereClause()
	if clause != "" {
		t.Fatalf("expected empty IN list to contribute nothing, got %q", clause)
	}
	if len(params) != 0 {
		t.Fatalf("expected no params, got %#v", params)
	}
}

func TestQueryPagePagination(t *testing.T) {
	newTestDB(t)

	titles := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for _, title := range titles {
		if _, err := CreateTask(models.CreateTask{Title: title}); err != nil {
			t.Fatalf("create task %s: %v", title, err)
		}
	}

	page, err := ListTasks(models.TaskListQuery{
		PaginationQuery: models.PaginationQuery{Page: 1, PageSize: 2},
	})
	if err != nil {
		t.Fatalf("list tasks page 1: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 || page.Page != 1 || page.PageSize != 2 {
		t.Fatalf("unexpected page meta: %+v", page)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 rows on page 1, got %d", len(page.Data))
	}

	page, err = ListTasks(models.TaskListQuery{
		PaginationQuery: models.PaginationQuery{Page: 3, PageSize: 2},
	})
	if err != nil {
		t.Fatalf("list tasks page 3: %v", err)
	}
	if len(page.Data) != 1 {
		t.Fatalf("expected 1 row on last page, got %d", len(page.Data))
	}
}

func TestQueryPageListAllFallback(t *testing.T) {
	newTestDB(t)

	for _, title := range []string{"one", "two", "three"} {
		if _, err := CreateTask(models.CreateTask{Title: title}); err != nil {
			t.Fatalf("create task %s: %v", title, err)
		}
	}

	// No pagination requested: everything comes back as a single page whose
	// size and total equal the row count.
	page, err := ListTasks(models.TaskListQuery{})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if page.Page != 1 || page.TotalPages != 1 {
		t.Fatalf("expected single page, got %+v", page)
	}
	if page.Total != 3 || page.PageSize != 3 || len(page.Data) != 3 {
		t.Fatalf("expected all 3 rows in one page, got %+v", page)
	}

	// Non-positive pagination values behave the same as absent ones.
	page, err = ListTasks(models.TaskListQuery{
		PaginationQuery: models.PaginationQuery{Page: 0, PageSize: 20},
	})
	if err != nil {
		t.Fatalf("list tasks with page=0: %v", err)
	}
	if page.TotalPages != 1 || len(page.Data) != 3 {
		t.Fatalf("expected fallback listing for page=0, got %+v", page)
	}
}

func TestQueryPageSortResolution(t *testing.T) {
	newTestDB(t)

	for _, title := range []string{"bravo", "alpha", "charlie"} {
		if _, err := CreateTask(models.CreateTask{Title: title}); err != nil {
			t.Fatalf("create task %s: %v", title, err)
		}
	}

	page, err := ListTasks(models.TaskListQuery{
		PaginationQuery: models.PaginationQuery{SortBy: "title", SortOrder: "asc"},
	})
	if err != nil {
		t.Fatalf("list tasks sorted by title: %v", err)
	}
	got := []string{}
	for _, task := range page.Data {
		got = append(got, task.Title)
	}
	want := []string{"alpha", "bravo", "charlie"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected titles %v, got %v", want, got)
		}
	}

	// An unknown sort field silently falls back to the default instead of
	// erroring or reaching the SQL layer.
	if _, err := ListTasks(models.TaskListQuery{
		PaginationQuery: models.PaginationQuery{SortBy: "1; DROP TABLE tasks"},
	}); err != nil {
		t.Fatalf("expected unknown sort field to fall back, got error: %v", err)
	}

	page, err = ListTasks(models.TaskListQuery{
		PaginationQuery: models.PaginationQuery{SortBy: "title", SortOrder: "DESCENDING"},
	})
	if err != nil {
		t.Fatalf("list tasks with bogus sort order: %v", err)
	}
	if page.Data[0].Title != "charlie" {
		t.Fatalf("expected non-asc sort order to mean descending, got first title %q", page.Data[0].Title)
	}
}
