package utilities

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxPage bounds ?page= so that Offset cannot overflow
const MaxPage = 1 << 20

// Pagination is the page window parsed from ?page=&limit=
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads page (default 1, capped at MaxPage) and limit (default def,
// capped at maxLimit). Malformed or non-positive values fall back to the defaults.
func ParsePagination(c *gin.Context, def int, maxLimit int) Pagination {
	p := Pagination{Page: 1, Limit: def}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = min(v, MaxPage)
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// PageLimits holds the configured default and maximum page sizes
type PageLimits struct {
	Default int
	Max     int
}

// Parse reads the page window of the request, falling back to 10 and 100
// when the limits are unset.
func (l PageLimits) Parse(c *gin.Context) Pagination {
	def, maxLimit := l.Default, l.Max
	if def <= 0 {
		def = 10
	}
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return ParsePagination(c, def, maxLimit)
}
