package validation

import (
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators attaches the domain validation tags to gin's
// request binding engine. Call once at startup, before routes are served.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("loancurrency", validCurrency); err != nil {
		return err
	}
	return v.RegisterValidation("repaymentmethod", validRepaymentMethod)
}

func validCurrency(fl validator.FieldLevel) bool {
	return domain.Currency(fl.Field().String()).IsValid()
}

func validRepaymentMethod(fl validator.FieldLevel) bool {
	return domain.RepaymentMethod(fl.Field().String()).IsValid()
}
