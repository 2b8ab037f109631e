package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/davitran/profile-hub/internal/application/usecase/auth"
	"github.com/davitran/profile-hub/pkg/apperror"
)

type AuthHandler struct {
	registerUseCase *authUC.RegisterUseCase
	loginUseCase    *authUC.LoginUseCase
}

func NewAuthHandler(registerUC *authUC.RegisterUseCase, loginUC *authUC.LoginUseCase) *AuthHandler {
	return &AuthHandler{
		registerUseCase: registerUC,
		loginUseCase:    loginUC,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation("Name, email, password, and address are required", err))
		return
	}

	input := authUC.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Bio:      req.Bio,
	}

	output, err := h.registerUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		ID:          output.UserID,
		AccessToken: output.AccessToken,
		Message:     "User created successfully",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation("Email and password are required", err))
		return
	}

	input := authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		ID:          output.UserID,
		AccessToken: output.AccessToken,
		Message:     "Login successful",
	})
}
