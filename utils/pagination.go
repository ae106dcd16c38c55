package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PageSize is the number of rows per list page.
const PageSize = 10

// Page is one page of a list response.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageParams reads ?page= (1-based, default 1) and returns the page number
// and row offset.
func PageParams(c *fiber.Ctx) (page, offset int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return page, (page - 1) * PageSize
}

func NewPage[T any](items []T, page int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := int((total + PageSize - 1) / PageSize)
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   PageSize,
		Total:      total,
		TotalPages: pages,
	}
}
