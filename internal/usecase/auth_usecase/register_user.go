package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	"github.com/Syarif-H55/smart-cashier/internal/repository"
	"github.com/Syarif-H55/smart-cashier/internal/usecase"

	"github.com/labstack/gommon/log"
)

// 登録の入力（roleは省略時cashier）
type RegisterUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type RegisterUserOutput struct {
	User model.User `json:"user"`
}

type RegisterUserUsecase struct {
	userRepo  repository.UserRepository
	validator AuthValidator
	hasher    PasswordHasher
	logger    *log.Logger
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	validator AuthValidator,
	hasher PasswordHasher,
	logger *log.Logger,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:  userRepo,
		validator: validator,
		hasher:    hasher,
		logger:    logger,
	}
}

// スタッフ登録
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.Role == "" {
		in.Role = string(model.RoleCashier)
	}

	if err := u.validator.ValidateRegister(in); err != nil {
		if errors.Is(err, ErrInvalidRole) {
			return RegisterUserOutput{}, usecase.NewHTTPError(http.StatusBadRequest, "Invalid role. Must be admin or cashier")
		}
		return RegisterUserOutput{}, usecase.NewHTTPError(http.StatusBadRequest, "Username, password, and full name are required")
	}

	// username重複チェック
	existing, err := u.userRepo.FindByUsername(ctx, in.Username)
	if err == nil && existing != nil {
		return RegisterUserOutput{}, usecase.NewHTTPError(http.StatusBadRequest, "Username already exists")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		u.logger.Errorf("find user %q: %v", in.Username, err)
		return RegisterUserOutput{}, usecase.NewHTTPError(http.StatusInternalServerError, "Failed to register user")
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		u.logger.Errorf("hash password: %v", err)
		return RegisterUserOutput{}, usecase.NewHTTPError(http.StatusInternalServerError, "Failed to register user")
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: hashed,
		FullName:     in.FullName,
		Role:         model.Role(in.Role),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		//同時登録で一意制約に当たった場合
		if errors.Is(err, repository.ErrDuplicate) {
			return RegisterUserOutput{}, usecase.NewHTTPError(http.StatusBadRequest, "Username already exists")
		}
		u.logger.Errorf("create user %q: %v", in.Username, err)
		return RegisterUserOutput{}, usecase.NewHTTPError(http.StatusInternalServerError, "Failed to register user")
	}

	return RegisterUserOutput{User: *user}, nil
}
