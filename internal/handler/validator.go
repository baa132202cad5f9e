package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator registers the decimal validations used by the request DTOs:
// decimal_gt=N and decimal_whole.
func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("decimal_gt", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return value.GreaterThan(bound)
	})

	_ = v.RegisterValidation("decimal_whole", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && value.IsInteger()
	})

	return v
}
