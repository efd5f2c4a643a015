package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shareit-team/shareit-server/pkg/response"
)

// UserIDHeader identifies the acting user. There is no authentication behind it.
const UserIDHeader = "X-Sharer-User-Id"

const userIDKey = "user_id"

// SharerUserID requires a positive numeric acting-user header and stores it on the context.
func SharerUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			response.BadRequest(c, UserIDHeader, "Required request header '"+UserIDHeader+"' is not present")
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, UserIDHeader, "must be a positive number")
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// GetUserID returns the acting user stored by SharerUserID.
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
