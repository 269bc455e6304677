package server

import (
	"net/http"

	"github.com/Syarif-H55/smart-cashier/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Menu        *handler.MenuHandler
	Transaction *handler.TransactionHandler
	AuditLog    *handler.AuditLogHandler
	Health      *handler.HealthHandler
}

// 認証レベル
type access int

const (
	public access = iota
	rateLimited
	staff
	admin
)

type route struct {
	method  string
	path    string
	access  access
	handler echo.HandlerFunc
}

// (method, path) → handler の対応表
func routeTable(h Handlers) []route {
	return []route{
		{http.MethodPost, "/login", rateLimited, h.Auth.Login},
		{http.MethodPost, "/register", admin, h.Auth.Register},

		{http.MethodGet, "/menu", public, h.Menu.List},
		{http.MethodGet, "/menu/:id", public, h.Menu.Get},
		{http.MethodPost, "/menu", staff, h.Menu.Create},
		{http.MethodPut, "/menu/:id/availability", staff, h.Menu.UpdateAvailability},
		{http.MethodDelete, "/menu/:id", staff, h.Menu.Delete},

		{http.MethodPost, "/transaction", staff, h.Transaction.Create},
		{http.MethodGet, "/transaction/:id", staff, h.Transaction.Get},
		{http.MethodGet, "/transaction", staff, h.Transaction.List},

		{http.MethodGet, "/audit-logs", admin, h.AuditLog.List},
		{http.MethodGet, "/healthz", public, h.Health.Healthz},
	}
}

func registerRoutes(e *echo.Echo, h Handlers, chains map[access][]echo.MiddlewareFunc) {
	for _, r := range routeTable(h) {
		e.Add(r.method, r.path, r.handler, chains[r.access]...)
	}
}
