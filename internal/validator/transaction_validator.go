package validator

import (
	"errors"

	"github.com/Syarif-H55/smart-cashier/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type transactionHeader struct {
	UserID        int64  `validate:"gt=0"`
	ItemCount     int    `validate:"gt=0"`
	PaymentMethod string `validate:"oneof=cash card qris"`
}

type itemFields struct {
	MenuID    *int64           `validate:"required"`
	Quantity  *int64           `validate:"required"`
	UnitPrice *decimal.Decimal `validate:"required"`
}

type itemValues struct {
	Quantity  int64           `validate:"gt=0"`
	UnitPrice decimal.Decimal `validate:"decgte0,cents"`
}

type transactionValidator struct {
	v *validator.Validate
}

func NewTransactionValidator() usecase.TransactionValidator {
	return &transactionValidator{v: newValidate()}
}

func (tv *transactionValidator) ValidateHeader(in usecase.CreateTransactionInput) error {
	h := transactionHeader{
		ItemCount:     len(in.Items),
		PaymentMethod: in.PaymentMethod,
	}
	if in.UserID != nil {
		h.UserID = *in.UserID
	}

	if err := tv.v.Struct(h); err != nil {
		field, _ := firstFailure(err)
		if field == "PaymentMethod" {
			return errors.New("Invalid payment method. Must be cash, card, or qris")
		}
		return errors.New("user_id and items are required")
	}
	return nil
}

func (tv *transactionValidator) ValidateItemFields(item usecase.CreateTransactionItemInput) error {
	f := itemFields{MenuID: item.MenuID, Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	if err := tv.v.Struct(f); err != nil {
		return errors.New("Each item must have menu_id, quantity, and unit_price")
	}
	return nil
}

// ValidateItemFieldsの後に呼ぶ
func (tv *transactionValidator) ValidateItemValues(item usecase.CreateTransactionItemInput) error {
	if item.Quantity == nil || item.UnitPrice == nil {
		return errors.New("Each item must have menu_id, quantity, and unit_price")
	}
	vals := itemValues{Quantity: *item.Quantity, UnitPrice: *item.UnitPrice}
	if err := tv.v.Struct(vals); err != nil {
		if _, tag := firstFailure(err); tag == "cents" {
			return errors.New("unit_price must have at most 2 decimal places")
		}
		return errors.New("Quantity must be positive and unit price must be non-negative")
	}
	return nil
}
