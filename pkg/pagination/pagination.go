package pagination

// PaginationParams carries page/per-page query input
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns the listing defaults
func DefaultPagination() *PaginationParams {
	return &PaginationParams{Page: 1, PerPage: 15}
}

// Validate clamps the parameters into their allowed ranges in place
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = 15
	case p.PerPage > 100:
		p.PerPage = 100
	}
}

// Offset returns the row offset for the requested page
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Pagination describes the page a listing response covers
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewPagination builds the page descriptor for a listing of total rows
func NewPagination(page, perPage int, total int64) *Pagination {
	pages := int(total / int64(perPage))
	if total%int64(perPage) != 0 {
		pages++
	}
	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  pages,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult pairs a page of items with its descriptor
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult wraps a page of items
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{Items: items, Pagination: pagination}
}
