package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// PaginatedResponse wraps a page of results with its position in the full list.
type PaginatedResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination is an offset/limit window over Total items.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// pageFromQuery reads offset and limit from the query string. Out-of-range
// limits fall back to the default rather than failing the request.
func pageFromQuery(c *fiber.Ctx, total int) Pagination {
	p := Pagination{
		Offset: c.QueryInt("offset", 0),
		Limit:  c.QueryInt("limit", defaultPageLimit),
		Total:  total,
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 || p.Limit > maxPageLimit {
		p.Limit = defaultPageLimit
	}
	return p
}

// Bounds returns the [start, end) slice indices of the window.
func (p Pagination) Bounds() (int, int) {
	start := min(p.Offset, p.Total)
	end := min(start+p.Limit, p.Total)
	return start, end
}

// SetLinkHeaders adds RFC 8288 first/prev/next/last links for p.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	link := func(offset int, rel string) string {
		return fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel="%s"`, c.Path(), offset, p.Limit, rel)
	}

	links := []string{link(0, "first")}
	if p.Offset > 0 {
		links = append(links, link(max(p.Offset-p.Limit, 0), "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}
	links = append(links, link(max(p.Total-p.Limit, 0), "last"))

	c.Set("Link", strings.Join(links, ", "))
}
