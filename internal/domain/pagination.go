package domain

// PaginationParams selects a window of a list query. Clients either page
// (Page, PageSize) or give a raw row offset in From with PageSize as the size.
type PaginationParams struct {
	Page     int
	PageSize int
	From     int
}

// Offset is the number of rows to skip. From wins over Page when set.
func (p PaginationParams) Offset() int {
	if p.From > 0 {
		return p.From
	}
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
