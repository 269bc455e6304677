package auth_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	"github.com/Syarif-H55/smart-cashier/internal/repository/repotest"
	"github.com/Syarif-H55/smart-cashier/internal/usecase"
	auth "github.com/Syarif-H55/smart-cashier/internal/usecase/auth_usecase"
	"github.com/Syarif-H55/smart-cashier/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func seedUser(t *testing.T, username, password string, role model.Role) *repotest.UserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return repotest.NewUserRepo(model.User{Username: username, PasswordHash: string(hash), FullName: "Siti Kasir", Role: role})
}

func newLogin(users *repotest.UserRepo, now time.Time) *auth.LoginUsecase {
	return auth.NewLoginUsecase(
		users,
		validator.NewAuthValidator(),
		auth.NewBcryptPasswordVerifier(),
		auth.NewJWTIssuer(testSecret, 24*time.Hour),
		fixedClock{now: now},
		quietLogger(),
	)
}

func TestLogin_Success_IssuesSignedToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	users := seedUser(t, "siti", "rahasia", model.RoleCashier)

	out, err := newLogin(users, now).Execute(context.Background(), auth.LoginInput{Username: " siti ", Password: "rahasia"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), out.UserID)
	assert.Equal(t, "siti", out.Username)
	assert.Equal(t, "Siti Kasir", out.FullName)
	assert.Equal(t, model.RoleCashier, out.Role)
	assert.Equal(t, now.Add(24*time.Hour), out.ExpiresAt)

	token, err := jwt.Parse(out.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "HS256", token.Method.Alg())
	assert.EqualValues(t, 1, claims["sub"])
	assert.Equal(t, "cashier", claims["role"])
	assert.EqualValues(t, now.Add(24*time.Hour).Unix(), claims["exp"])
}

func TestLogin_Failures(t *testing.T) {
	users := seedUser(t, "siti", "rahasia", model.RoleCashier)
	uc := newLogin(users, time.Now())

	cases := []struct {
		name   string
		in     auth.LoginInput
		status int
		msg    string
	}{
		{name: "missing password", in: auth.LoginInput{Username: "siti"}, status: http.StatusBadRequest, msg: "Username and password are required"},
		{name: "missing username", in: auth.LoginInput{Password: "x"}, status: http.StatusBadRequest, msg: "Username and password are required"},
		{name: "unknown user", in: auth.LoginInput{Username: "budi", Password: "rahasia"}, status: http.StatusUnauthorized, msg: "Invalid credentials"},
		{name: "wrong password", in: auth.LoginInput{Username: "siti", Password: "salah"}, status: http.StatusUnauthorized, msg: "Invalid credentials"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.in)
			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, tc.status, he.Status)
			assert.Equal(t, tc.msg, he.Message)
		})
	}
}

func newRegister(users *repotest.UserRepo) *auth.RegisterUserUsecase {
	return auth.NewRegisterUserUsecase(users, validator.NewAuthValidator(), auth.NewBcryptPasswordHasher(bcrypt.MinCost), quietLogger())
}

func TestRegister_DefaultsToCashierAndHashes(t *testing.T) {
	users := repotest.NewUserRepo()

	out, err := newRegister(users).Execute(context.Background(), auth.RegisterUserInput{
		Username: "budi", Password: "kopi-tubruk", FullName: "Budi Santoso",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCashier, out.User.Role)

	stored, err := users.FindByUsername(context.Background(), "budi")
	require.NoError(t, err)
	assert.NotEqual(t, "kopi-tubruk", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("kopi-tubruk")))

	//登録したユーザーでログインできる
	_, err = newLogin(users, time.Now()).Execute(context.Background(), auth.LoginInput{Username: "budi", Password: "kopi-tubruk"})
	assert.NoError(t, err)
}

func TestRegister_Admin(t *testing.T) {
	users := repotest.NewUserRepo()
	out, err := newRegister(users).Execute(context.Background(), auth.RegisterUserInput{
		Username: "owner", Password: "pw", FullName: "Owner", Role: "ADMIN",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, out.User.Role)
}

func TestRegister_Failures(t *testing.T) {
	cases := []struct {
		name string
		in   auth.RegisterUserInput
		msg  string
	}{
		{name: "missing full name", in: auth.RegisterUserInput{Username: "a", Password: "b"}, msg: "Username, password, and full name are required"},
		{name: "bad role", in: auth.RegisterUserInput{Username: "a", Password: "b", FullName: "c", Role: "manager"}, msg: "Invalid role. Must be admin or cashier"},
		{name: "duplicate", in: auth.RegisterUserInput{Username: "siti", Password: "b", FullName: "c"}, msg: "Username already exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := seedUser(t, "siti", "rahasia", model.RoleCashier)
			_, err := newRegister(users).Execute(context.Background(), tc.in)
			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
			assert.Equal(t, tc.msg, he.Message)
			assert.True(t, errors.Is(err, usecase.ErrInvalidRequest))
		})
	}
}
