package repository

// pageBounds normalizes limit/page into gorm Limit/Offset values.
func pageBounds(limit, page int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}
