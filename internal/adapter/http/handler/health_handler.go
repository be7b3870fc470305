package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	. "userapp/internal/adapter/http/helper"
	"userapp/internal/core/model/response"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Home(c *gin.Context) {
	SendSuccess(c, http.StatusOK, response.HealthResponse{
		Message: "User Management System",
		Status:  "healthy",
	})
}
