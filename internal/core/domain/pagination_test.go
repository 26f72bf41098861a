package domain

import "testing"

func TestPageOptions_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageOptions
		want PageOptions
	}{
		{
			name: "zero values get defaults",
			in:   PageOptions{},
			want: PageOptions{Page: 1, Limit: 10, SortBy: "created_at", SortOrder: "desc"},
		},
		{
			name: "limit above maximum is clamped",
			in:   PageOptions{Page: 2, Limit: 500},
			want: PageOptions{Page: 2, Limit: 100, SortBy: "created_at", SortOrder: "desc"},
		},
		{
			name: "negative page resets to first",
			in:   PageOptions{Page: -3, Limit: 20},
			want: PageOptions{Page: 1, Limit: 20, SortBy: "created_at", SortOrder: "desc"},
		},
		{
			name: "asc survives, anything else becomes desc",
			in:   PageOptions{Page: 1, Limit: 10, SortBy: "email", SortOrder: "asc"},
			want: PageOptions{Page: 1, Limit: 10, SortBy: "email", SortOrder: "asc"},
		},
		{
			name: "bogus sort order becomes desc",
			in:   PageOptions{Page: 1, Limit: 10, SortOrder: "sideways"},
			want: PageOptions{Page: 1, Limit: 10, SortBy: "created_at", SortOrder: "desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPageOptions_Offset(t *testing.T) {
	opts := PageOptions{Page: 3, Limit: 25}
	if got := opts.Offset(); got != 50 {
		t.Fatalf("offset = %d, want 50", got)
	}
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(PageOptions{Page: 2, Limit: 10}, 45)

	if meta.TotalPages != 5 {
		t.Fatalf("total pages = %d, want 5", meta.TotalPages)
	}
	if !meta.HasNextPage || !meta.HasPrevPage {
		t.Fatalf("page 2 of 5 should have both neighbours: %+v", meta)
	}

	last := NewPageMeta(PageOptions{Page: 5, Limit: 10}, 45)
	if last.HasNextPage {
		t.Fatalf("last page must not report a next page")
	}

	empty := NewPageMeta(PageOptions{Page: 1, Limit: 10}, 0)
	if empty.TotalPages != 0 || empty.HasNextPage || empty.HasPrevPage {
		t.Fatalf("empty result set: %+v", empty)
	}
}
