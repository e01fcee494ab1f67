package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cybergaz/Hashira/pkg/validator"
)

func TestStringRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule validator.Rule
		pass bool
	}{
		{"required with value", validator.Required("f", "value"), true},
		{"required empty", validator.Required("f", ""), false},
		{"required whitespace only", validator.Required("f", "   "), false},
		{"min len ok", validator.MinLen("f", "abcdefgh", 8), true},
		{"min len short", validator.MinLen("f", "abcdefg", 8), false},
		{"max len ok", validator.MaxLen("f", "abcdefgh", 15), true},
		{"max len long", validator.MaxLen("f", "abcdefghijklmnop", 15), false},
		{"len between inside", validator.LenBetween("f", "abcdefgh", 8, 15), true},
		{"len between below", validator.LenBetween("f", "short", 8, 15), false},
		{"len between above", validator.LenBetween("f", "averyverylongusername", 8, 15), false},
		{"min len counts runes not bytes", validator.MinLen("f", "ねずこちゃん", 8), false},
		{"max len counts runes not bytes", validator.MaxLen("f", "鬼滅の刃のキャラクター", 15), true},
		{"len between counts runes not bytes", validator.LenBetween("f", "たんじろうかまど", 8, 15), true},
		{"alphanumeric ok", validator.Alphanumeric("f", "user1234"), true},
		{"alphanumeric with dash", validator.Alphanumeric("f", "user-1234"), false},
		{"alphanumeric with space", validator.Alphanumeric("f", "user 1234"), false},
		{"alphanumeric empty", validator.Alphanumeric("f", ""), false},
		{"not blank", validator.NotBlank("f", "a"), true},
		{"not blank whitespace", validator.NotBlank("f", " \t "), false},
		{"fields match", validator.FieldsMatch("confirm", "Abcdef1!", "Abcdef1!"), true},
		{"fields mismatch", validator.FieldsMatch("confirm", "Abcdef1@", "Abcdef1!"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.pass, tt.rule.Check())
		})
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@example.com",
		"first.last@sub.example.co",
		"user+tag@example.org",
	}
	invalid := []string{
		"",
		"   ",
		"not-an-email",
		"@example.com",
		"user@",
		"user@example",
		"user@.example.com",
		"user@example.com.",
		"user@exa..mple.com",
	}

	for _, email := range valid {
		assert.True(t, validator.ValidEmail("email", email).Check(), "expected %q to be valid", email)
	}
	for _, email := range invalid {
		assert.False(t, validator.ValidEmail("email", email).Check(), "expected %q to be invalid", email)
	}
}

func TestPasswordRules(t *testing.T) {
	t.Parallel()

	t.Run("each missing class fails its own rule", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			password string
			rule     validator.Rule
			message  string
		}{
			{"no uppercase", "abcdef1!", validator.PasswordUppercase("password", "abcdef1!"), "must contain at least one uppercase letter"},
			{"no lowercase", "ABCDEF1!", validator.PasswordLowercase("password", "ABCDEF1!"), "must contain at least one lowercase letter"},
			{"no digit", "Abcdefg!", validator.PasswordDigit("password", "Abcdefg!"), "must contain at least one number"},
			{"no special", "Abcdefg1", validator.PasswordSpecialChar("password", "Abcdefg1"), "must contain at least one special character"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				assert.False(t, tt.rule.Check())
				assert.Equal(t, tt.message, tt.rule.Error.Message)
			})
		}
	})

	t.Run("satisfying all classes passes", func(t *testing.T) {
		t.Parallel()

		password := "Abcdef1!"
		err := validator.Apply(
			validator.PasswordUppercase("password", password),
			validator.PasswordLowercase("password", password),
			validator.PasswordDigit("password", password),
			validator.PasswordSpecialChar("password", password),
			validator.PasswordMinLen("password", password, 8),
		)
		assert.NoError(t, err)
	})

	t.Run("unusual specials from the accepted set", func(t *testing.T) {
		t.Parallel()

		for _, pw := range []string{"Abcdef1₹", "Abcdef1_", "Abcdef1[", "Abcdef1\\"} {
			assert.True(t, validator.PasswordSpecialChar("password", pw).Check(), "password %q", pw)
		}
	})

	t.Run("min length", func(t *testing.T) {
		t.Parallel()

		assert.False(t, validator.PasswordMinLen("password", "Ab1!", 8).Check())
		assert.True(t, validator.PasswordMinLen("password", "Abcdef1!", 8).Check())
		assert.False(t, validator.PasswordMinLen("password", "ねこ₹Aa1", 8).Check(),
			"length is counted in runes, not bytes")
	})
}
