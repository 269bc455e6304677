package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DBの疎通確認
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// GET /healthz
func (h *HealthHandler) Healthz(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		c.Logger().Errorf("health check: %v", err)
		return writeFail(c, http.StatusServiceUnavailable, "database unavailable")
	}
	return writeSuccess(c, http.StatusOK, map[string]string{"status": "ok"})
}
