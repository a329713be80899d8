package validation

import (
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "is required",
	"gte":      "must be greater than or equal to {param}",
	"lte":      "must be less than or equal to {param}",
	"gt":       "must be greater than {param}",
	"min":      "must be at least {param} characters",
	"max":      "must be at most {param}",
}

func message(fe val.FieldError) string {
	if m, ok := messages[fe.Tag()]; ok {
		return strings.ReplaceAll(m, "{param}", fe.Param())
	}
	return "is invalid"
}
