package middleware

import (
	"errors"
	"net/http"

	"github.com/Syarif-H55/smart-cashier/internal/repository"

	"github.com/labstack/echo/v4"
)

// トークンのユーザーがまだ存在するかDBで確認する。
// roleはDBの値で上書き（トークン発行後の変更を反映）。
// 見つからない場合だけ401、DB障害は500。
func UserGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserIDFromContext(c)
			if !ok {
				return unauthorized(c)
			}

			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if errors.Is(err, repository.ErrNotFound) || (err == nil && user == nil) {
				return unauthorized(c)
			}
			if err != nil {
				c.Logger().Errorf("load user %d: %v", userID, err)
				return c.JSON(http.StatusInternalServerError, errorJSON("Internal server error"))
			}

			c.Set(CtxUserRoleKey, string(user.Role))
			return next(c)
		}
	}
}
