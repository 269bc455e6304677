package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Syarif-H55/smart-cashier/internal/config"
	"github.com/Syarif-H55/smart-cashier/internal/handler"
	"github.com/Syarif-H55/smart-cashier/internal/middleware"
	"github.com/Syarif-H55/smart-cashier/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// echoを組み立てる（起動はしない）
func New(cfg config.Config, logger *log.Logger, users repository.UserRepository, h Handlers) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = logger
	e.HTTPErrorHandler = errorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Infof("%s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	//ログインと管理系は別カウンタ（管理画面の操作でログイン枠を消費しない）
	loginLimit, err := middleware.RateLimit(cfg.LoginRateLimit)
	if err != nil {
		return nil, err
	}
	adminLimit, err := middleware.RateLimit(cfg.LoginRateLimit)
	if err != nil {
		return nil, err
	}

	staffChain := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg.JWTSecret),
		middleware.UserGuard(users),
	}
	chains := map[access][]echo.MiddlewareFunc{
		public:      nil,
		rateLimited: {loginLimit},
		staff:       staffChain,
		admin:       append(append([]echo.MiddlewareFunc{adminLimit}, staffChain...), middleware.AdminRoleGuard()),
	}

	registerRoutes(e, h, chains)
	return e, nil
}

// ルート外・echo内部のエラーも共通の形で返す
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch status {
		case http.StatusNotFound:
			msg = "Route not found"
		case http.StatusMethodNotAllowed:
			msg = "Method not allowed"
		default:
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(status)
			}
		}
	} else {
		c.Logger().Errorf("unhandled error: %v", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, handler.ErrorResponse{Status: "error", Message: msg})
}

// SIGTERMなどでctxが終わったら猶予付きで止める
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
