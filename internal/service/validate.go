package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}
