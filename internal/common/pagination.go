package common

// NormalizePagination clamps page/size query parameters to sane bounds.
// Pages are 1-based; sizes default to 20 and cap at 100.
func NormalizePagination(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// PageOffset converts 1-based page/size into a SQL OFFSET.
func PageOffset(page, size int) int {
	return (page - 1) * size
}
