package handler

import (
	"net/http"

	"github.com/Syarif-H55/smart-cashier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type TransactionHandler struct {
	uc *usecase.TransactionUsecase
}

// DI
func NewTransactionHandler(uc *usecase.TransactionUsecase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// POST /transaction
func (h *TransactionHandler) Create(c echo.Context) error {
	var req usecase.CreateTransactionInput
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "Invalid request body")
	}

	out, err := h.uc.CreateTransaction(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return writeSuccess(c, http.StatusCreated, out)
}

// GET /transaction/:id
func (h *TransactionHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid transaction id")
	}

	out, err := h.uc.GetTransaction(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return writeSuccess(c, http.StatusOK, out)
}

// GET /transaction
func (h *TransactionHandler) List(c echo.Context) error {
	list, err := h.uc.ListTransactions(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return writeSuccess(c, http.StatusOK, list)
}
