package pagination

import (
	"context"
	"fmt"
)

// Navigator is the navigation contract shared by in-memory and server-side pagination
type Navigator interface {
	Page() int
	TotalPages() int
	SetPage(requested int) int
	HasNext() bool
	HasPrev() bool
}

// Local paginates a record set held entirely in memory
type Local[T any] struct {
	records []T
	size    int
	page    int
}

// NewLocal creates an in-memory paginator positioned on the first page
func NewLocal[T any](records []T, size int) *Local[T] {
	return &Local[T]{records: records, size: NormalizeSize(size)}
}

func (l *Local[T]) Page() int { return l.page }

func (l *Local[T]) TotalPages() int {
	return TotalPages(int64(len(l.records)), l.size)
}

// SetPage moves to requested, clamped into bounds, and returns the actual page
func (l *Local[T]) SetPage(requested int) int {
	l.page = Clamp(requested, l.TotalPages())
	return l.page
}

func (l *Local[T]) HasNext() bool { return l.page < l.TotalPages()-1 }

func (l *Local[T]) HasPrev() bool { return l.page > 0 }

// Next advances one page, staying on the last page
func (l *Local[T]) Next() int { return l.SetPage(l.page + 1) }

// Prev goes back one page, staying on the first page
func (l *Local[T]) Prev() int { return l.SetPage(l.page - 1) }

// Visible returns the records of the current page
func (l *Local[T]) Visible() []T {
	return VisibleSlice(l.records, l.page, l.size)
}

// Descriptor returns the descriptor of the current page
func (l *Local[T]) Descriptor() Descriptor {
	return Descriptor{
		Page:         l.page,
		Size:         l.size,
		TotalPages:   l.TotalPages(),
		TotalRecords: int64(len(l.records)),
	}
}

// RemotePage is one page returned by a server-side source
type RemotePage[T any] struct {
	Items        []T
	TotalPages   int
	TotalRecords int64
}

// Fetcher loads one page from the server
type Fetcher[T any] func(ctx context.Context, page, size int) (RemotePage[T], error)

// Remote paginates a server-side source one page at a time
type Remote[T any] struct {
	fetch Fetcher[T]
	size  int
	desc  Descriptor
	items []T
}

// NewRemote creates a server-side paginator that has not fetched anything yet
func NewRemote[T any](fetch Fetcher[T], size int) *Remote[T] {
	size = NormalizeSize(size)
	return &Remote[T]{
		fetch: fetch,
		size:  size,
		desc:  Descriptor{Size: size, TotalPages: 1},
	}
}

func (r *Remote[T]) Page() int { return r.desc.Page }

func (r *Remote[T]) TotalPages() int { return r.desc.TotalPages }

// SetPage clamps requested against the last known descriptor without fetching
func (r *Remote[T]) SetPage(requested int) int {
	r.desc.Page = Clamp(requested, r.desc.TotalPages)
	return r.desc.Page
}

func (r *Remote[T]) HasNext() bool { return r.desc.HasNext() }

func (r *Remote[T]) HasPrev() bool { return r.desc.HasPrev() }

// Items returns the records of the last fetched page
func (r *Remote[T]) Items() []T { return r.items }

// Descriptor returns the descriptor of the last fetched page
func (r *Remote[T]) Descriptor() Descriptor { return r.desc }

// Load fetches requested. Negative pages load page 0. When the server reports
// fewer pages than requested the last existing page is fetched instead.
// On error the previous page stays in place.
func (r *Remote[T]) Load(ctx context.Context, requested int) error {
	if requested < 0 {
		requested = 0
	}

	result, err := r.fetch(ctx, requested, r.size)
	if err != nil {
		return fmt.Errorf("failed to fetch page %d: %w", requested, err)
	}

	pages := result.TotalPages
	if pages < 1 {
		pages = TotalPages(result.TotalRecords, r.size)
	}

	if requested > pages-1 {
		last := pages - 1
		result, err = r.fetch(ctx, last, r.size)
		if err != nil {
			return fmt.Errorf("failed to fetch page %d: %w", last, err)
		}
		requested = last
		if result.TotalPages >= 1 {
			pages = result.TotalPages
		}
	}

	r.items = result.Items
	r.desc = Descriptor{
		Page:         Clamp(requested, pages),
		Size:         r.size,
		TotalPages:   pages,
		TotalRecords: result.TotalRecords,
	}
	return nil
}

// Next fetches the following page; on the last page it reloads the current one
func (r *Remote[T]) Next(ctx context.Context) error {
	return r.Load(ctx, Clamp(r.desc.Page+1, r.desc.TotalPages))
}

// Prev fetches the preceding page; on the first page it reloads the current one
func (r *Remote[T]) Prev(ctx context.Context) error {
	return r.Load(ctx, Clamp(r.desc.Page-1, r.desc.TotalPages))
}
