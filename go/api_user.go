package storeserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	usertypes "github.com/Apurer/storefront-api/internal/domains/users/application/types"
	userdomain "github.com/Apurer/storefront-api/internal/domains/users/domain"
	userports "github.com/Apurer/storefront-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// UserAPI implements registration and login.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI wires dependencies.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

// Post /register
// Create a customer account
func (api *UserAPI) Register(c *gin.Context) {
	var payload RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	if !requireCredentials(c, payload.Username, payload.Password) {
		return
	}
	user, err := api.service.Register(c.Request.Context(), usertypes.RegisterInput{
		Username: payload.Username,
		Password: payload.Password,
		Email:    payload.Email,
		FullName: payload.FullName,
		Phone:    payload.Phone,
		Address:  payload.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, RegisterResponse{
		Message:  "registration successful",
		UserId:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
}

// Post /login
// Logs user into the system
func (api *UserAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	if !requireCredentials(c, payload.Username, payload.Password) {
		return
	}
	user, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Message: "login successful", User: toUser(user)})
}

func requireCredentials(c *gin.Context, username, password string) bool {
	fields := map[string]string{}
	if strings.TrimSpace(username) == "" {
		fields["username"] = "is required"
	}
	if password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		respondProblem(c, apierrors.NewValidationProblem(fields).WithDetail("username and password are required"))
		return false
	}
	return true
}

func toUser(u *userdomain.User) User {
	return User{
		UserId:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Address:  u.Address,
		Role:     string(u.Role),
	}
}
