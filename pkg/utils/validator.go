package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// EnumValidator builds a validator.Func that accepts string fields for which
// isValid returns true. Empty values pass; pair with "required" when needed.
func EnumValidator(isValid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		value := field.String()
		return value == "" || isValid(value)
	}
}

// SanitizeString trims s and removes control characters, keeping newlines
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = controlChars.ReplaceAllString(line, "")
	}
	return strings.Join(lines, "\n")
}
