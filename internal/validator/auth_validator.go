package validator

import (
	auth "github.com/Syarif-H55/smart-cashier/internal/usecase/auth_usecase"

	"github.com/go-playground/validator/v10"
)

type loginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type registerRequest struct {
	Username string `validate:"required,max=100"`
	Password string `validate:"required"`
	FullName string `validate:"required,max=255"`
	Role     string `validate:"oneof=admin cashier"`
}

type authValidator struct {
	v *validator.Validate
}

// Usecaseは interface を依存注入
func NewAuthValidator() auth.AuthValidator {
	return &authValidator{v: newValidate()}
}

// ログインの入力を検証
func (av *authValidator) ValidateLogin(in auth.LoginInput) error {
	if err := av.v.Struct(loginRequest{Username: in.Username, Password: in.Password}); err != nil {
		return auth.ErrMissingFields
	}
	return nil
}

// 登録の入力を検証（roleは既定値が入った後）
func (av *authValidator) ValidateRegister(in auth.RegisterUserInput) error {
	req := registerRequest{Username: in.Username, Password: in.Password, FullName: in.FullName, Role: in.Role}
	if err := av.v.Struct(req); err != nil {
		if field, _ := firstFailure(err); field == "Role" {
			return auth.ErrInvalidRole
		}
		return auth.ErrMissingFields
	}
	return nil
}
