package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// エラーの種類。errors.Isで判定できる
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrReferenceNotFound  = errors.New("reference not found")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrPersistenceFailure = errors.New("persistence failure")
)

// handlerがそのままレスポンスにするエラー
type HTTPError struct {
	Status  int
	Message string
	Kind    error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Kind
}

// ステータスから種類を決める
func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Kind:    kindOf(status),
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func invalidRequest(format string, args ...any) error {
	return &HTTPError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...), Kind: ErrInvalidRequest}
}

func referenceNotFound(format string, args ...any) error {
	return &HTTPError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...), Kind: ErrReferenceNotFound}
}

func notFound(message string) error {
	return &HTTPError{Status: http.StatusNotFound, Message: message, Kind: ErrNotFound}
}

// 内部の詳細は返さない（ログにだけ出す）
func persistenceFailure(message string) error {
	return &HTTPError{Status: http.StatusInternalServerError, Message: message, Kind: ErrPersistenceFailure}
}

func kindOf(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrInvalidRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrPersistenceFailure
	}
}
