package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Syarif-H55/smart-cashier/internal/config"
	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	"github.com/Syarif-H55/smart-cashier/internal/handler"
	"github.com/Syarif-H55/smart-cashier/internal/repository/repotest"
	"github.com/Syarif-H55/smart-cashier/internal/usecase"
	auth "github.com/Syarif-H55/smart-cashier/internal/usecase/auth_usecase"
	"github.com/Syarif-H55/smart-cashier/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "server-test-secret"

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

type env struct {
	e     *echo.Echo
	store *repotest.Store
	users *repotest.UserRepo
	nasi  model.Menu
	esTeh model.Menu
}

func newEnv(t *testing.T, rateLimit string, dbErr error) *env {
	t.Helper()

	logger := log.New("test")
	logger.SetOutput(io.Discard)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	users := repotest.NewUserRepo(
		model.User{Username: "admin", PasswordHash: string(hash), FullName: "Administrator", Role: model.RoleAdmin},
		model.User{Username: "kasir", PasswordHash: string(hash), FullName: "Siti Kasir", Role: model.RoleCashier},
	)

	store := repotest.NewStore()
	nasi := store.AddMenu(model.Menu{Name: "Nasi Goreng", Category: model.MenuCategoryFood, Price: decimal.NewFromInt(25000), IsAvailable: true})
	esTeh := store.AddMenu(model.Menu{Name: "Es Teh Manis", Category: model.MenuCategoryBeverage, Price: decimal.NewFromInt(5000), IsAvailable: true})

	clock := usecase.SystemClock{}
	menuUC := usecase.NewMenuUsecase(store.Menus(), &repotest.AuditLogRepo{}, validator.NewMenuValidator(), clock, logger)
	txUC := usecase.NewTransactionUsecase(store.TxManager(), store.Transactions(), store.TransactionItems(),
		menuUC, validator.NewTransactionValidator(), usecase.NewRandomCodeGenerator(), clock, nil, logger)

	authValidator := validator.NewAuthValidator()
	loginUC := auth.NewLoginUsecase(users, authValidator, auth.NewBcryptPasswordVerifier(), auth.NewJWTIssuer(secret, time.Hour), clock, logger)
	registerUC := auth.NewRegisterUserUsecase(users, authValidator, auth.NewBcryptPasswordHasher(bcrypt.MinCost), logger)

	cfg := config.Config{JWTSecret: secret, LoginRateLimit: rateLimit}
	e, err := New(cfg, logger, users, Handlers{
		Auth:        handler.NewAuthHandler(registerUC, loginUC),
		Menu:        handler.NewMenuHandler(menuUC),
		Transaction: handler.NewTransactionHandler(txUC),
		AuditLog:    handler.NewAuditLogHandler(menuUC),
		Health:      handler.NewHealthHandler(pinger{err: dbErr}),
	})
	require.NoError(t, err)

	return &env{e: e, store: store, users: users, nasi: nasi, esTeh: esTeh}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (en *env) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	en.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (en *env) login(t *testing.T, username string) string {
	t.Helper()
	code, env := en.do(t, http.MethodPost, "/login", "", `{"username":"`+username+`","password":"pw"}`)
	require.Equal(t, http.StatusOK, code)
	var out struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestTransactionFlow(t *testing.T) {
	en := newEnv(t, "100-M", nil)
	token := en.login(t, "kasir")

	body := `{"user_id":2,"payment_method":"cash","items":[` +
		`{"menu_id":1,"quantity":2,"unit_price":25000},` +
		`{"menu_id":2,"quantity":1,"unit_price":"5000"}]}`
	code, env := en.do(t, http.MethodPost, "/transaction", token, body)
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Equal(t, "success", env.Status)

	var created struct {
		TransactionID   int64  `json:"transaction_id"`
		TransactionCode string `json:"transaction_code"`
		TotalAmount     string `json:"total_amount"`
		CreatedAt       string `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "55000", created.TotalAmount)
	assert.Regexp(t, `^TRX-`+time.Now().Format("20060102")+`-\d{5}$`, created.TransactionCode)
	assert.NotEmpty(t, created.CreatedAt)

	code, env = en.do(t, http.MethodGet, "/transaction/1", token, "")
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		Transaction struct {
			ID          int64  `json:"id"`
			TotalAmount string `json:"total_amount"`
		} `json:"transaction"`
		Items []struct {
			MenuName string `json:"menu_name"`
			Subtotal string `json:"subtotal"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "55000", detail.Transaction.TotalAmount)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "Nasi Goreng", detail.Items[0].MenuName)
	assert.Equal(t, "50000", detail.Items[0].Subtotal)

	code, env = en.do(t, http.MethodGet, "/transaction", token, "")
	require.Equal(t, http.StatusOK, code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func TestTransactionErrors(t *testing.T) {
	en := newEnv(t, "100-M", nil)
	token := en.login(t, "kasir")

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		msg    string
	}{
		{"empty items", http.MethodPost, "/transaction", `{"user_id":2,"payment_method":"cash","items":[]}`, 400, "user_id and items are required"},
		{"unknown menu", http.MethodPost, "/transaction", `{"user_id":2,"payment_method":"cash","items":[{"menu_id":77,"quantity":1,"unit_price":1}]}`, 400, "Menu item with ID 77 not found"},
		{"bad json", http.MethodPost, "/transaction", `{"user_id":`, 400, "Invalid request body"},
		{"missing transaction", http.MethodGet, "/transaction/42", "", 404, "Transaction not found"},
		{"bad id", http.MethodGet, "/transaction/abc", "", 400, "invalid transaction id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := en.do(t, tc.method, tc.path, token, tc.body)
			assert.Equal(t, tc.status, code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, tc.msg, env.Message)
		})
	}
	assert.Zero(t, en.store.TransactionCount())
}

func TestTransactionPersistenceFailureIsGeneric(t *testing.T) {
	en := newEnv(t, "100-M", nil)
	token := en.login(t, "kasir")
	en.store.FailItemInsertAt = 2

	body := `{"user_id":2,"payment_method":"card","items":[` +
		`{"menu_id":1,"quantity":1,"unit_price":25000},{"menu_id":2,"quantity":1,"unit_price":5000}]}`
	code, env := en.do(t, http.MethodPost, "/transaction", token, body)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "failed to create transaction", env.Message)
	assert.Zero(t, en.store.TransactionCount())
	assert.Zero(t, en.store.ItemCount())
}

func TestAuthRequired(t *testing.T) {
	en := newEnv(t, "100-M", nil)

	expired, _, err := auth.NewJWTIssuer(secret, time.Minute).Issue(2, model.RoleCashier, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	otherKey, _, err := auth.NewJWTIssuer("other", time.Hour).Issue(2, model.RoleCashier, time.Now())
	require.NoError(t, err)
	ghost, _, err := auth.NewJWTIssuer(secret, time.Hour).Issue(999, model.RoleAdmin, time.Now())
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing":      "",
		"garbage":      "not-a-jwt",
		"expired":      expired,
		"wrong key":    otherKey,
		"unknown user": ghost,
	} {
		t.Run(name, func(t *testing.T) {
			code, env := en.do(t, http.MethodGet, "/transaction", token, "")
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, "Unauthorized", env.Message)
		})
	}
}

func TestLoginFailure(t *testing.T) {
	en := newEnv(t, "100-M", nil)
	code, env := en.do(t, http.MethodPost, "/login", "", `{"username":"kasir","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestRegisterIsAdminOnly(t *testing.T) {
	en := newEnv(t, "100-M", nil)
	body := `{"username":"budi","password":"pw","full_name":"Budi"}`

	code, _ := en.do(t, http.MethodPost, "/register", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := en.do(t, http.MethodPost, "/register", en.login(t, "kasir"), body)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Admin only", env.Message)

	adminToken := en.login(t, "admin")
	code, env = en.do(t, http.MethodPost, "/register", adminToken, body)
	assert.Equal(t, http.StatusCreated, code)
	assert.JSONEq(t, `{"message":"User registered successfully"}`, string(env.Data))

	code, env = en.do(t, http.MethodPost, "/register", adminToken, body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Username already exists", env.Message)
}

func TestMenuRoutes(t *testing.T) {
	en := newEnv(t, "100-M", nil)

	code, env := en.do(t, http.MethodGet, "/menu", "", "")
	require.Equal(t, http.StatusOK, code)
	var menus []struct {
		Name  string `json:"name"`
		Price string `json:"price"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &menus))
	require.Len(t, menus, 2)
	assert.Equal(t, "Es Teh Manis", menus[0].Name)

	code, _ = en.do(t, http.MethodPost, "/menu", "", `{"name":"Soto","category":"food","price":22000}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	token := en.login(t, "kasir")
	code, env = en.do(t, http.MethodPost, "/menu", token, `{"name":"Soto","category":"food","price":22000}`)
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = en.do(t, http.MethodPost, "/menu", token, `{"name":"Soto","category":"snack","price":22000}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid category. Must be food, beverage, or dessert", env.Message)

	code, env = en.do(t, http.MethodPut, "/menu/1/availability", token, `{"is_available":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "is_available must be a boolean value", env.Message)

	code, _ = en.do(t, http.MethodPut, "/menu/1/availability", token, `{"is_available":false}`)
	assert.Equal(t, http.StatusOK, code)

	code, env = en.do(t, http.MethodGet, "/menu/1", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Menu item not found", env.Message)

	code, _ = en.do(t, http.MethodDelete, "/menu/2", token, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = en.do(t, http.MethodDelete, "/menu/2", token, "")
	assert.Equal(t, http.StatusNotFound, code)

	//監査ログはadminのみ
	code, _ = en.do(t, http.MethodGet, "/audit-logs", token, "")
	assert.Equal(t, http.StatusForbidden, code)
	code, env = en.do(t, http.MethodGet, "/audit-logs?action=delete_menu", en.login(t, "admin"), "")
	require.Equal(t, http.StatusOK, code)
	var logs []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	assert.Len(t, logs, 1)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	en := newEnv(t, "100-M", nil)

	code, env := en.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Route not found", env.Message)

	code, env = en.do(t, http.MethodPatch, "/menu", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, "Method not allowed", env.Message)
}

func TestHealthz(t *testing.T) {
	code, env := newEnv(t, "100-M", nil).do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	code, env = newEnv(t, "100-M", errors.New("down")).do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "database unavailable", env.Message)
}

func TestLoginRateLimit(t *testing.T) {
	en := newEnv(t, "2-M", nil)
	body := `{"username":"kasir","password":"pw"}`

	for i := 0; i < 2; i++ {
		code, _ := en.do(t, http.MethodPost, "/login", "", body)
		require.Equal(t, http.StatusOK, code)
	}
	code, env := en.do(t, http.MethodPost, "/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "Too many requests", env.Message)
}

func TestAdminTrafficDoesNotThrottleLogin(t *testing.T) {
	en := newEnv(t, "3-M", nil)
	adminToken := en.login(t, "admin")

	for i := 0; i < 3; i++ {
		code, _ := en.do(t, http.MethodGet, "/audit-logs", adminToken, "")
		require.Equal(t, http.StatusOK, code)
	}
	code, env := en.do(t, http.MethodGet, "/audit-logs", adminToken, "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "Too many requests", env.Message)

	//管理系の枠を使い切ってもログイン枠は残る
	en.login(t, "kasir")
	en.login(t, "kasir")
}

func TestNew_InvalidRateLimit(t *testing.T) {
	logger := log.New("test")
	_, err := New(config.Config{JWTSecret: secret, LoginRateLimit: "often"}, logger, repotest.NewUserRepo(), Handlers{})
	assert.Error(t, err)
}
