package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Access log page bounds.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ParsePagination reads the offset and limit query parameters. Both are zero
// on error.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err = queryInt(c, "limit", DefaultPageSize)
	if err != nil || limit < 1 || limit > MaxPageSize {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxPageSize)
	}

	return offset, limit, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
