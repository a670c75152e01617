package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// ValidPaymentAmount reports whether amount is a positive number suitable for
// a fine payment.
func ValidPaymentAmount(amount float64) bool {
	return validate.Var(amount, "gt=0") == nil
}
