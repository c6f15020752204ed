package models

import "testing"

func TestNewPageArithmetic(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"exact multiple", 40, 20, 2},
		{"partial last page", 45, 20, 3},
		{"single page", 5, 20, 1},
		{"empty result", 0, 20, 1},
		{"page size one", 3, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage([]int{}, tt.total, 1, tt.pageSize)
			if page.TotalPages != tt.wantTotalPages {
				t.Fatalf("total=%d page_size=%d: got %d total pages, want %d",
					tt.total, tt.pageSize, page.TotalPages, tt.wantTotalPages)
			}
		})
	}
}

func TestAllPage(t *testing.T) {
	page := AllPage([]string{"a", "b", "c"})
	if page.Total != 3 || page.PageSize != 3 || page.Page != 1 || page.TotalPages != 1 {
		t.Fatalf("unexpected all-data page: %+v", page)
	}

	empty := AllPage([]string{})
	if empty.Total != 0 || empty.PageSize != 0 || empty.Page != 1 || empty.TotalPages != 1 {
		t.Fatalf("unexpected empty all-data page: %+v", empty)
	}
}
