package handler

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "userapp/internal/adapter/http/helper"
	"userapp/internal/adapter/http/validation"
	"userapp/internal/core/domain"
	"userapp/internal/core/model/request"
	"userapp/internal/core/model/response"
	"userapp/internal/core/port"
	"userapp/internal/core/util"
	"userapp/pkg/config"
)

type UserHandler struct {
	svc    port.UserService
	logger *config.Logger
}

func NewUserHandler(svc port.UserService, logger *config.Logger) *UserHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.svc.ListUsers(ctx)

	if err != nil {
		h.logger.Ctx(ctx).Error("Error listing users", zap.Error(err))
		SendInternalError(c, "Failed to retrieve users")
		return
	}

	SendSuccess(c, http.StatusOK, response.FromUsers(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.svc.GetUser(ctx, id)

	if errors.Is(err, domain.ErrUserNotFound) {
		SendNotFoundError(c, MsgUserNotFound)
		return
	}

	if err != nil {
		h.logger.Ctx(ctx).Error("Error getting user", zap.Int64("user_id", id), zap.Error(err))
		SendInternalError(c, "Failed to retrieve user")
		return
	}

	SendSuccess(c, http.StatusOK, response.FromUser(user))
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := util.BindPayload(c)

	if err != nil {
		SendBadRequestError(c, MsgNoJSONData)
		return
	}

	if err := validation.Validate(payload, request.CreateUserFields...); err != nil {
		SendBadRequestError(c, err.Error())
		return
	}

	data := payload.(map[string]any)

	user, err := h.svc.CreateUser(ctx,
		data[request.FieldName].(string),
		data[request.FieldEmail].(string),
		data[request.FieldPassword].(string),
	)

	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		SendConflictError(c, MsgEmailExists)
		return
	}

	if err != nil {
		h.logger.Ctx(ctx).Error("Error creating user", zap.Error(err))
		SendInternalError(c, MsgInternalError)
		return
	}

	SendSuccess(c, http.StatusCreated, response.UserEnvelope{
		Message: "User created successfully",
		User:    response.FromUser(user),
	})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := userID(c)
	if !ok {
		return
	}

	payload, err := util.BindPayload(c)

	if err != nil {
		SendBadRequestError(c, MsgNoJSONData)
		return
	}

	if _, err := h.svc.GetUser(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			SendNotFoundError(c, MsgUserNotFound)
			return
		}

		h.logger.Ctx(ctx).Error("Error loading user for update", zap.Int64("user_id", id), zap.Error(err))
		SendInternalError(c, MsgInternalError)
		return
	}

	provided := providedFields(payload)

	if len(provided) == 0 {
		SendBadRequestError(c, MsgNoValidFields)
		return
	}

	// a non-object body naming a field fails here with "Invalid JSON data"
	if err := validation.Validate(payload, provided...); err != nil {
		SendBadRequestError(c, err.Error())
		return
	}

	data := payload.(map[string]any)

	var fields domain.UserUpdate

	if name, exists := data[request.FieldName]; exists {
		value := name.(string)
		fields.Name = &value
	}

	if email, exists := data[request.FieldEmail]; exists {
		value := email.(string)
		fields.Email = &value
	}

	user, err := h.svc.UpdateUser(ctx, id, fields)

	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		SendConflictError(c, MsgEmailExists)
	case errors.Is(err, domain.ErrUserNotFound):
		SendNotFoundError(c, MsgUserNotFound)
	case err != nil:
		h.logger.Ctx(ctx).Error("Error updating user", zap.Int64("user_id", id), zap.Error(err))
		SendInternalError(c, MsgInternalError)
	default:
		SendSuccess(c, http.StatusOK, response.UserEnvelope{
			Message: "User updated successfully",
			User:    response.FromUser(user),
		})
	}
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := userID(c)
	if !ok {
		return
	}

	err := h.svc.DeleteUser(ctx, id)

	if errors.Is(err, domain.ErrUserNotFound) {
		SendNotFoundError(c, MsgUserNotFound)
		return
	}

	if err != nil {
		h.logger.Ctx(ctx).Error("Error deleting user", zap.Int64("user_id", id), zap.Error(err))
		SendInternalError(c, MsgInternalError)
		return
	}

	SendMessage(c, http.StatusOK, "User deleted successfully")
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	ctx := c.Request.Context()

	name := strings.TrimSpace(c.Query("name"))

	if name == "" {
		SendBadRequestError(c, MsgSearchNameMissing)
		return
	}

	users, err := h.svc.SearchUsers(ctx, name)

	if err != nil {
		h.logger.Ctx(ctx).Error("Error searching users", zap.Error(err))
		SendInternalError(c, "Failed to search users")
		return
	}

	SendSuccess(c, http.StatusOK, response.FromUsers(users))
}

// providedFields lists the updatable fields the body mentions: keys of an
// object, elements of an array, or substrings of a string.
func providedFields(payload any) []string {
	var provided []string

	for _, field := range request.UpdatableFields {
		var found bool

		switch v := payload.(type) {
		case map[string]any:
			_, found = v[field]
		case []any:
			found = slices.Contains(v, any(field))
		case string:
			found = strings.Contains(v, field)
		}

		if found {
			provided = append(provided, field)
		}
	}

	return provided
}
