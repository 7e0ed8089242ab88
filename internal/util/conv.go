package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageParams reads page/limit query values, falling back to 1 and 20.
func PageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 20
	}
	return page, limit
}
