package val

import (
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const tagSingleRune = "single_rune"

func registerCustomValidations(v *validator.Validate) {
	// the tag is constant and the function non-nil, so registration cannot fail
	_ = v.RegisterValidation(tagSingleRune, isSingleRune)
}

// isSingleRune accepts strings made of exactly one character. Empty strings pass,
// so the tag combines with omitempty and defaults.
func isSingleRune(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || utf8.RuneCountInString(s) == 1
}

// IsSingleRune reports whether s is exactly one character long.
func IsSingleRune(s string) bool {
	return utf8.RuneCountInString(s) == 1
}
