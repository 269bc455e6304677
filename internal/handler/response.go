package handler

import (
	"net/http"
	"strconv"

	"github.com/Syarif-H55/smart-cashier/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 成功時の共通レスポンス
type SuccessResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// 失敗時の共通レスポンス
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// { message: string } だけを返すとき
type MessageResponse struct {
	Message string `json:"message"`
}

func writeSuccess(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, SuccessResponse{Status: "success", Data: data})
}

func writeMessage(c echo.Context, status int, msg string) error {
	return writeSuccess(c, status, MessageResponse{Message: msg})
}

func writeFail(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{Status: "error", Message: msg})
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return writeFail(c, he.Status, he.Message)
	}

	//500（中身は返さない）
	c.Logger().Errorf("unhandled error: %v", err)
	return writeFail(c, http.StatusInternalServerError, "Internal server error")
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
