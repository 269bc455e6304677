package handler

import (
	"net/http"

	"github.com/Syarif-H55/smart-cashier/internal/middleware"
	"github.com/Syarif-H55/smart-cashier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type MenuHandler struct {
	uc *usecase.MenuUsecase
}

// DI
func NewMenuHandler(uc *usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

// GET /menu
func (h *MenuHandler) List(c echo.Context) error {
	menus, err := h.uc.ListMenus(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return writeSuccess(c, http.StatusOK, menus)
}

// GET /menu/:id
func (h *MenuHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return writeFail(c, http.StatusNotFound, "Menu item not found")
	}

	m, err := h.uc.GetMenu(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return writeSuccess(c, http.StatusOK, m)
}

// POST /menu
func (h *MenuHandler) Create(c echo.Context) error {
	var req usecase.CreateMenuInput
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "Invalid request body")
	}

	actorID, _ := middleware.UserIDFromContext(c)
	if _, err := h.uc.CreateMenu(c.Request().Context(), actorID, req); err != nil {
		return writeError(c, err)
	}
	return writeMessage(c, http.StatusCreated, "Menu item created successfully")
}

// PUT /menu/:id/availability
func (h *MenuHandler) UpdateAvailability(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return writeFail(c, http.StatusNotFound, "Menu item not found")
	}

	var req usecase.UpdateAvailabilityInput
	if err := c.Bind(&req); err != nil {
		//"yes" などboolでない値
		return writeFail(c, http.StatusBadRequest, "is_available must be a boolean value")
	}

	actorID, _ := middleware.UserIDFromContext(c)
	if err := h.uc.UpdateAvailability(c.Request().Context(), actorID, id, req); err != nil {
		return writeError(c, err)
	}
	return writeMessage(c, http.StatusOK, "Menu availability updated successfully")
}

// DELETE /menu/:id
func (h *MenuHandler) Delete(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return writeFail(c, http.StatusNotFound, "Menu item not found")
	}

	actorID, _ := middleware.UserIDFromContext(c)
	if err := h.uc.DeleteMenu(c.Request().Context(), actorID, id); err != nil {
		return writeError(c, err)
	}
	return writeMessage(c, http.StatusOK, "Menu item deleted successfully")
}
