package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userapp/internal/core/model/response"
)

const (
	MsgEndpointNotFound  = "Endpoint not found"
	MsgMethodNotAllowed  = "Method not allowed"
	MsgInternalError     = "Internal server error"
	MsgNoJSONData        = "No JSON data provided"
	MsgUserNotFound      = "User not found"
	MsgEmailExists       = "Email already exists"
	MsgInvalidCreds      = "Invalid credentials"
	MsgNoValidFields     = "No valid fields provided"
	MsgSearchNameMissing = "Please provide a name to search"
)

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func SendMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.MessageResponse{Message: message})
}

func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.ErrorResponse{Error: message})
}

func SendBadRequestError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendConflictError(c *gin.Context, message string) {
	SendError(c, http.StatusConflict, message)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, response.FailedResponse{Status: "failed", Error: message})
}

func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

func AbortWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, response.ErrorResponse{Error: message})
}
