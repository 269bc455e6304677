package handler

import (
	"net/http"
	"strconv"

	"github.com/Syarif-H55/smart-cashier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuditLogHandler struct {
	uc *usecase.MenuUsecase
}

func NewAuditLogHandler(uc *usecase.MenuUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

// GET /audit-logs?action=&resource_id=&limit=&offset=
func (h *AuditLogHandler) List(c echo.Context) error {
	in := usecase.ListAuditLogsInput{Action: c.QueryParam("action")}

	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return writeFail(c, http.StatusBadRequest, "invalid resource_id")
		}
		in.ResourceID = &id
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return writeFail(c, http.StatusBadRequest, "invalid limit")
		}
		in.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return writeFail(c, http.StatusBadRequest, "invalid offset")
		}
		in.Offset = n
	}

	logs, err := h.uc.ListAuditLogs(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return writeSuccess(c, http.StatusOK, logs)
}
