package usecase

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePage clamps pagination arguments to sane bounds: pages start at 1
// and page sizes stay within 1..100.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}
