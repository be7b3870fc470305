package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	. "userapp/internal/adapter/http/helper"
	"userapp/internal/adapter/database"
	"userapp/internal/adapter/database/repository"
	"userapp/internal/core/port"
	"userapp/internal/core/service"
	"userapp/internal/core/util"
	. "userapp/pkg/test"
)

type testApp struct {
	DB       *database.DB
	UserRepo port.UserRepository
	Router   *gin.Engine
}

func newTestApp() *testApp {
	gin.SetMode(gin.TestMode)

	db := InitTestDB()
	hasher := util.NewBcryptHasher(bcrypt.MinCost)
	repo := repository.NewUserRepository(db, hasher, nil)

	userHandler := NewUserHandler(service.NewUserService(repo, nil), nil)
	authHandler := NewAuthHandler(service.NewAuthService(repo, hasher, nil), nil)

	return &testApp{
		DB:       db,
		UserRepo: repo,
		Router:   setupTestRouter(NewHealthHandler(), userHandler, authHandler),
	}
}

func setupTestRouter(health *HealthHandler, users *UserHandler, auth *AuthHandler) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.GET("/", health.Home)
	router.GET("/users", users.GetAllUsers)
	router.POST("/users", users.CreateUser)
	router.GET("/user/:id", users.GetUser)
	router.PUT("/user/:id", users.UpdateUser)
	router.DELETE("/user/:id", users.DeleteUser)
	router.GET("/search", users.SearchUsers)
	router.POST("/login", auth.Login)

	router.NoRoute(func(c *gin.Context) { SendNotFoundError(c, MsgEndpointNotFound) })
	router.NoMethod(func(c *gin.Context) { SendError(c, http.StatusMethodNotAllowed, MsgMethodNotAllowed) })

	return router
}

func (a *testApp) perform(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request

	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)

	return rr
}

func decode[T any](rr *httptest.ResponseRecorder) T {
	var out T
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	return out
}
