package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any listing can request.
	MaxLimit = 100
)

// Params holds page/limit inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the params to sane bounds: pages start at 1 and limits
// honor the provided default and maximum (falling back to the package ones).
func (p Params) Normalize(defaultLimit, maxLimit int) Params {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	out := p
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit <= 0 {
		out.Limit = defaultLimit
	}
	if out.Limit > maxLimit {
		out.Limit = maxLimit
	}
	return out
}

// Offset returns the number of rows to skip for the current page.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Page slices an in-memory result set. The whole set is always materialized
// first; this is a display window, not a storage-level cursor.
func Page[T any](items []T, p Params) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
