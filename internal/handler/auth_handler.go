package handler

import (
	"net/http"

	auth "github.com/Syarif-H55/smart-cashier/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
}

// DI
func NewAuthHandler(registerUC *auth.RegisterUserUsecase, loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{registerUC: registerUC, loginUC: loginUC}
}

// POST /login
func (h *AuthHandler) Login(c echo.Context) error {
	var req auth.LoginInput
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "Invalid request body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return writeSuccess(c, http.StatusOK, out)
}

// POST /register（admin）
func (h *AuthHandler) Register(c echo.Context) error {
	var req auth.RegisterUserInput
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.registerUC.Execute(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return writeMessage(c, http.StatusCreated, "User registered successfully")
}
