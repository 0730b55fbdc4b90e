package feed

// DefaultPageSize is the number of cards appended per page.
const DefaultPageSize = 12

// Paginator tracks how many items of a filtered list are visible and hands out
// the next page when the scroll sentinel is reached.
type Paginator[T any] struct {
	pageSize int
	key      string
	applied  bool
	items    []T
	visible  int
}

// NewPaginator creates a paginator; a non-positive page size uses DefaultPageSize.
func NewPaginator[T any](pageSize int) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Paginator[T]{pageSize: pageSize}
}

// Apply installs a freshly filtered list. key identifies the filter that produced it.
// When the filter changed (or on the first call) the visible count resets to one page
// and that page is returned. Otherwise the list is refreshed in place, the visible
// count is kept (clamped to the new length) and nothing is returned.
func (p *Paginator[T]) Apply(key string, items []T) []T {
	p.items = items

	if !p.applied || key != p.key {
		p.applied = true
		p.key = key
		p.visible = min(p.pageSize, len(items))

		return p.items[:p.visible]
	}

	p.visible = min(p.visible, len(items))

	return nil
}

// Next appends the next page and returns only the newly visible items.
func (p *Paginator[T]) Next() []T {
	start := p.visible
	p.visible = min(start+p.pageSize, len(p.items))

	return p.items[start:p.visible]
}

// Trigger recomputes with the filtered list and either resets to the first page
// (filter changed, or first call) or appends the next page. It returns the items to append.
func (p *Paginator[T]) Trigger(key string, items []T) []T {
	if !p.applied || key != p.key {
		return p.Apply(key, items)
	}

	p.Apply(key, items)

	return p.Next()
}

// Restore sets the visible count, e.g. from the offset of a continuation request.
func (p *Paginator[T]) Restore(visible int) {
	p.visible = max(0, min(visible, len(p.items)))
}

// Count is the number of visible items.
func (p *Paginator[T]) Count() int {
	return p.visible
}

// HasMore reports whether a sentinel must follow the last visible item.
func (p *Paginator[T]) HasMore() bool {
	return p.visible < len(p.items)
}
