// Package model contain gorm model for recording data to database
package model

// MigrateAble is array of model instance, use for migrating database
var MigrateAble []interface{}

func init() {
	MigrateAble = append(
		MigrateAble,
		&User{},
		&Job{},
		&Application{},
		&AdminAudit{},
		&Feedback{},
		&CommunityPost{},
		&CommunityComment{},
	)
}

// Page is the pagination envelope shared by list endpoints
type Page struct {
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

// NewPage computes page metadata for total items split into pages of size
func NewPage(page int, size int, total int64) Page {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page{Page: page, Pages: pages, Total: total}
}
