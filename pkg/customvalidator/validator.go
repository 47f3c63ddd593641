package customvalidator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phoneRegexp = regexp.MustCompile(`^\+?\d{10,14}$`)

func isPhoneNumber(fl validator.FieldLevel) bool {
	value := strings.ReplaceAll(fl.Field().String(), " ", "")
	value = strings.NewReplacer("(", "", ")", "", "-", "").Replace(value)
	if value == "" {
		return true
	}
	return phoneRegexp.MatchString(value)
}

func isOrderStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "OPEN", "IN_PROGRESS", "READY", "DELIVERED", "CANCELED":
		return true
	}
	return false
}

func isPlanCode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "TRIAL", "BASIC", "PRO":
		return true
	}
	return false
}

// RegisterCustomValidations wires all custom rules into the validator.
// Called once at startup.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", isPhoneNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("order_status", isOrderStatus); err != nil {
		return err
	}
	return v.RegisterValidation("plan_code", isPlanCode)
}
