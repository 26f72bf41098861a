package domain

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxPageLimit = 100
)

// PageOptions selects a page of a sorted result set. Page is 1-based.
type PageOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// Normalize clamps options into their allowed ranges and applies defaults.
func (o PageOptions) Normalize() PageOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxPageLimit {
		o.Limit = MaxPageLimit
	}
	if o.SortBy == "" {
		o.SortBy = "created_at"
	}
	if o.SortOrder != "asc" {
		o.SortOrder = "desc"
	}
	return o
}

// Offset returns the number of records to skip for this page.
func (o PageOptions) Offset() int64 {
	return int64(o.Page-1) * int64(o.Limit)
}

// PageMeta describes the position of a page within the full result set.
type PageMeta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// NewPageMeta computes pagination metadata for a page request against
// totalItems matching records.
func NewPageMeta(opts PageOptions, totalItems int64) PageMeta {
	totalPages := int((totalItems + int64(opts.Limit) - 1) / int64(opts.Limit))
	return PageMeta{
		Page:        opts.Page,
		Limit:       opts.Limit,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNextPage: opts.Page < totalPages,
		HasPrevPage: opts.Page > 1,
	}
}
