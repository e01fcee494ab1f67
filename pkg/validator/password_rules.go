package validator

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var (
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	digitRegex     = regexp.MustCompile(`[0-9]`)
	// Punctuation set accepted as a "special character" in passwords.
	specialCharRegex = regexp.MustCompile(`[~` + "`" + `!@#$%^&*()\-+={}\[\]|\\:;"'<>,.?/_₹]`)
)

func PasswordUppercase(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return uppercaseRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must contain at least one uppercase letter",
		},
	}
}

func PasswordLowercase(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return lowercaseRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must contain at least one lowercase letter",
		},
	}
}

func PasswordDigit(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return digitRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must contain at least one number",
		},
	}
}

func PasswordSpecialChar(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return specialCharRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must contain at least one special character",
		},
	}
}

// PasswordMinLen reports length failures with a password-specific message so
// forms can surface it verbatim next to the character-class failures.
func PasswordMinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) >= min
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters long", min),
		},
	}
}
