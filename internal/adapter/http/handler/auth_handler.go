package handler

import (
	"errors"
	"net/http"

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

type AuthHandler struct {
	svc    port.AuthService
	logger *config.Logger
}

func NewAuthHandler(svc port.AuthService, logger *config.Logger) *AuthHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

func (a *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := util.BindPayload(c)

	if err != nil {
		SendBadRequestError(c, MsgNoJSONData)
		return
	}

	if err := validation.Validate(payload, request.LoginFields...); err != nil {
		SendBadRequestError(c, err.Error())
		return
	}

	data := payload.(map[string]any)

	user, err := a.svc.Authenticate(ctx, data[request.FieldEmail].(string), data[request.FieldPassword].(string))

	if errors.Is(err, domain.ErrInvalidCredentials) {
		SendUnauthorizedError(c, MsgInvalidCreds)
		return
	}

	if err != nil {
		a.logger.Ctx(ctx).Error("Error authenticating user", zap.Error(err))
		SendInternalError(c, MsgInternalError)
		return
	}

	SendSuccess(c, http.StatusOK, response.LoginResponse{
		Status:  "success",
		UserID:  user.ID,
		Message: "Login successful",
	})
}
