// Package pagination computes page bounds and visible slices for list views.
//
// A list with zero records still has one (empty) page, so TotalPages never
// returns less than 1 and a page index is always within [0, TotalPages-1].
package pagination

// DefaultPageSize is the page size used by list views when none is requested
const DefaultPageSize = 10

// MaxPageSize bounds page sizes accepted from callers
const MaxPageSize = 100

// Descriptor describes one page of a paginated view
type Descriptor struct {
	Page         int   `json:"page"`
	Size         int   `json:"size"`
	TotalPages   int   `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
}

// HasNext reports whether a following page exists
func (d Descriptor) HasNext() bool {
	return d.Page < d.TotalPages-1
}

// HasPrev reports whether a preceding page exists
func (d Descriptor) HasPrev() bool {
	return d.Page > 0
}

// NewDescriptor builds a descriptor for total records, clamping page into bounds
func NewDescriptor(page, size int, total int64) Descriptor {
	size = NormalizeSize(size)
	pages := TotalPages(total, size)
	return Descriptor{
		Page:         Clamp(page, pages),
		Size:         size,
		TotalPages:   pages,
		TotalRecords: total,
	}
}

// NormalizeSize maps non-positive sizes to 1 and caps them at MaxPageSize
func NormalizeSize(size int) int {
	if size < 1 {
		return 1
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages returns ceil(count/size), never less than 1
func TotalPages(count int64, size int) int {
	if size < 1 {
		size = 1
	}
	if count <= 0 {
		return 1
	}
	pages := int((count + int64(size) - 1) / int64(size))
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp maps requested into [0, totalPages-1]; totalPages below 1 yields 0
func Clamp(requested, totalPages int) int {
	if totalPages < 1 || requested < 0 {
		return 0
	}
	if requested > totalPages-1 {
		return totalPages - 1
	}
	return requested
}

// VisibleSlice returns all[page*size : page*size+size], or an empty slice when out of range
func VisibleSlice[T any](all []T, page, size int) []T {
	if page < 0 || size < 1 {
		return []T{}
	}
	start := page * size
	if start < 0 || start >= len(all) {
		return []T{}
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
