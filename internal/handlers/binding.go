package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// registerBindingValidations installs custom rules on gin's validator engine.
// Safe to call more than once; re-registration replaces the previous rule.
func registerBindingValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// currencycode: an ISO 4217 alphabetic code, e.g. "USD". Optional fields
	// pair it with omitempty so an empty value falls back to the configured
	// default currency.
	_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		return currencyCodePattern.MatchString(fl.Field().String())
	})
}
