package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	"github.com/Syarif-H55/smart-cashier/internal/repository"
	"github.com/Syarif-H55/smart-cashier/internal/usecase"

	"github.com/labstack/gommon/log"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handlerがJSONにして返す
type LoginOutput struct {
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	Role      model.Role `json:"role"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}

type LoginUsecase struct {
	userRepo  repository.UserRepository
	validator AuthValidator
	verifier  PasswordVerifier
	issuer    AccessTokenIssuer
	clock     usecase.Clock
	logger    *log.Logger
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	validator AuthValidator,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock usecase.Clock,
	logger *log.Logger,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:  userRepo,
		validator: validator,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
		logger:    logger,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := u.validator.ValidateLogin(in); err != nil {
		return LoginOutput{}, usecase.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	//usernameでユーザー取得
	user, err := u.userRepo.FindByUsername(ctx, in.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return LoginOutput{}, usecase.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		u.logger.Errorf("find user %q: %v", in.Username, err)
		return LoginOutput{}, usecase.NewHTTPError(http.StatusInternalServerError, "Failed to login")
	}

	//パスワード照合（ユーザー無しと同じ応答）
	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return LoginOutput{}, usecase.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, exp, err := u.issuer.Issue(user.ID, user.Role, u.clock.Now())
	if err != nil {
		u.logger.Errorf("issue token for user %d: %v", user.ID, err)
		return LoginOutput{}, usecase.NewHTTPError(http.StatusInternalServerError, "Failed to login")
	}

	return LoginOutput{
		UserID:    user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      user.Role,
		Token:     token,
		ExpiresAt: exp,
	}, nil
}
