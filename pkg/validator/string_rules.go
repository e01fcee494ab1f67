package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "field is required",
		},
	}
}

// MinLen validates a minimum length counted in runes, so multi-byte input
// is measured the way users count characters.
func MinLen(field, value string, min int) Rule {
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

// MaxLen validates a maximum length counted in runes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
		},
	}
}

// LenBetween validates that a string's rune count falls within [min, max].
func LenBetween(field, value string, min, max int) Rule {
	return Rule{
		Check: func() bool {
			n := utf8.RuneCountInString(value)
			return n >= min && n <= max
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be %d-%d characters long", min, max),
		},
	}
}

// Alphanumeric validates that a string contains only letters and digits.
func Alphanumeric(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return false
			}
			return alphanumericRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must contain only letters and digits",
		},
	}
}

// NotBlank validates that a string is not made of whitespace only.
// Unlike Required it accepts the empty string check being handled elsewhere;
// its purpose is to reject values like "   " that survive presence checks.
func NotBlank(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "must not consist of whitespace",
		},
	}
}

// FieldsMatch validates that two fields hold the exact same value.
// The error is attached to the named field, which should be the
// confirmation field rather than the original one.
func FieldsMatch(field, value, other string) Rule {
	return Rule{
		Check: func() bool {
			return value == other
		},
		Error: ValidationError{
			Field:   field,
			Message: "fields do not match",
		},
	}
}
