package validator

import (
	"errors"
	"strings"

	"github.com/Syarif-H55/smart-cashier/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type menuRequired struct {
	Name     string           `validate:"required,max=255"`
	Category string           `validate:"required"`
	Price    *decimal.Decimal `validate:"required,decgt0"`
}

type menuValues struct {
	Category string          `validate:"oneof=food beverage dessert"`
	Price    decimal.Decimal `validate:"cents"`
	ImageURL string          `validate:"omitempty,max=512"`
}

type menuValidator struct {
	v *validator.Validate
}

func NewMenuValidator() usecase.MenuValidator {
	return &menuValidator{v: newValidate()}
}

func (mv *menuValidator) ValidateCreate(in usecase.CreateMenuInput) error {
	req := menuRequired{Name: strings.TrimSpace(in.Name), Category: in.Category, Price: in.Price}
	if err := mv.v.Struct(req); err != nil {
		if field, tag := firstFailure(err); field == "Name" && tag == "max" {
			return errors.New("name must be at most 255 characters")
		}
		return errors.New("Name, category, and price are required")
	}

	vals := menuValues{Category: in.Category, Price: *in.Price}
	if in.ImageURL != nil {
		vals.ImageURL = *in.ImageURL
	}
	if err := mv.v.Struct(vals); err != nil {
		switch field, _ := firstFailure(err); field {
		case "Category":
			return errors.New("Invalid category. Must be food, beverage, or dessert")
		case "Price":
			return errors.New("price must have at most 2 decimal places")
		default:
			return errors.New("image_url must be at most 512 characters")
		}
	}
	return nil
}

func (mv *menuValidator) ValidateAvailability(in usecase.UpdateAvailabilityInput) error {
	if in.IsAvailable == nil {
		return errors.New("is_available field is required")
	}
	return nil
}
