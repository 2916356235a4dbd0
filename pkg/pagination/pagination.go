package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Normalize applies the default page window to zero or negative values and
// caps the limit so a single page cannot load unbounded rows. Exports that
// need more rows page through in MaxLimit-sized batches.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset converts a page window to a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}
