package inventory

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// PageRequest is a 0-based page selector.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request to sane bounds.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size <= 0 {
		r.Size = DefaultPageSize
	}
	if r.Size > MaxPageSize {
		r.Size = MaxPageSize
	}
	return r
}

// Offset returns the number of items preceding the page.
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds a page from already-sliced items and the total count.
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = (total + req.Size - 1) / req.Size
	}
	return Page[T]{
		Items:      items,
		Page:       req.Page,
		Size:       req.Size,
		TotalItems: total,
		TotalPages: pages,
	}
}

// Paginate slices a fully computed list in memory.
func Paginate[T any](all []T, req PageRequest) Page[T] {
	req = req.Normalize()
	start := min(req.Offset(), len(all))
	end := min(start+req.Size, len(all))
	return NewPage(all[start:end], req, len(all))
}
