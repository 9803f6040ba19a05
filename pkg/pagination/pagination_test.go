package pagination

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestPaginateMiddlePage(t *testing.T) {
	all := make([]int, 45)
	for i := range all {
		all[i] = i
	}

	page := Paginate(all, Params{Page: 2, Limit: 20})
	if page.Total != 45 || page.TotalPages != 3 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	if len(page.Data) != 20 || page.Data[0] != 20 {
		t.Fatalf("unexpected page slice: len=%d first=%d", len(page.Data), page.Data[0])
	}
	if !page.HasNext || !page.HasPrev {
		t.Fatalf("expected both neighbours: %+v", page)
	}
}

func TestPaginateOutOfRangePageIsEmptyNotError(t *testing.T) {
	all := []string{"a", "b", "c"}

	page := Paginate(all, Params{Page: 9, Limit: 2})
	if len(page.Data) != 0 {
		t.Fatalf("expected empty data, got %v", page.Data)
	}
	if page.Total != 3 || page.TotalPages != 2 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	if page.HasNext {
		t.Fatal("page past the end cannot have a next page")
	}
	if !page.HasPrev {
		t.Fatal("page past the end still has previous pages")
	}
}

func TestPaginateNormalizesInputs(t *testing.T) {
	all := []int{1, 2, 3}

	page := Paginate(all, Params{Page: 0, Limit: 0})
	if page.Page != 1 || page.Limit != DefaultLimit {
		t.Fatalf("expected normalized params, got %+v", page)
	}

	page = Paginate(all, Params{Page: 1, Limit: 9999})
	if page.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, page.Limit)
	}
}
