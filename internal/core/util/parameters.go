package util

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var ErrNoData = errors.New("no data provided")

// BindPayload decodes the JSON body into a generic value. Missing, unparsable
// and falsy bodies (null, {}, [], "", 0, false) all yield ErrNoData.
func BindPayload(c *gin.Context) (any, error) {
	var payload any

	if err := c.ShouldBindJSON(&payload); err != nil {
		return nil, ErrNoData
	}

	if isEmpty(payload) {
		return nil, ErrNoData
	}

	return payload, nil
}

func isEmpty(payload any) bool {
	switch v := payload.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	case float64:
		return v == 0
	case bool:
		return !v
	}

	return false
}
