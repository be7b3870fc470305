package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	. "userapp/internal/adapter/http/helper"
)

// userID reads the :id path segment. Anything but a non-negative integer is
// treated as an unknown route.
func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)

	if err != nil {
		SendNotFoundError(c, MsgEndpointNotFound)
		return 0, false
	}

	return int64(id), true
}
