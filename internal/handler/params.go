package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shareit-team/shareit-server/pkg/response"
)

const (
	defaultFrom = 0
	defaultSize = 10
)

// pathID parses a positive int64 path parameter. On failure it writes 400 and returns false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, name, "must be a positive number")
		return 0, false
	}
	return id, true
}

// parsePagination reads from (default 0, must be >= 0) and size (default 10, must be > 0).
func parsePagination(c *gin.Context) (from, size int, ok bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", strconv.Itoa(defaultFrom)))
	if err != nil || from < 0 {
		response.BadRequest(c, "from", "must be greater than or equal to 0")
		return 0, 0, false
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if err != nil || size <= 0 {
		response.BadRequest(c, "size", "must be greater than 0")
		return 0, 0, false
	}
	return from, size, true
}

// requiredBool reads a mandatory boolean query parameter.
func requiredBool(c *gin.Context, name string) (bool, bool) {
	raw, present := c.GetQuery(name)
	if !present {
		response.BadRequest(c, name, "Required request parameter '"+name+"' is not present")
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		response.BadRequest(c, name, "must be true or false")
		return false, false
	}
	return v, true
}
