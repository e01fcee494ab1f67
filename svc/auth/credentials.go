package auth

import "github.com/cybergaz/Hashira/pkg/validator"

// SignUpInput is the raw sign-up form submission. Validation is pure and
// runs before any identity provider is invoked.
type SignUpInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks the sign-up form and collects every applicable failure in
// one pass so the form can render them all at once.
func (in SignUpInput) Validate() error {
	rules := []validator.Rule{
		validator.Required("username", in.Username),
		validator.LenBetween("username", in.Username, 8, 15),
		validator.Alphanumeric("username", in.Username),

		validator.Required("email", in.Email),
		validator.ValidEmail("email", in.Email),

		validator.Required("password", in.Password),
		validator.NotBlank("password", in.Password),
		validator.PasswordUppercase("password", in.Password),
		validator.PasswordLowercase("password", in.Password),
		validator.PasswordDigit("password", in.Password),
		validator.PasswordSpecialChar("password", in.Password),
		validator.PasswordMinLen("password", in.Password, 8),
	}

	// The mismatch error belongs to the confirmation field, not the password.
	if in.ConfirmPassword != "" || in.Password != "" {
		rules = append(rules, validator.FieldsMatch("confirmPassword", in.ConfirmPassword, in.Password))
	}

	return validator.Apply(rules...)
}

// SignInInput is the raw email sign-in form submission.
type SignInInput struct {
	Email string `json:"email"`
}

func (in SignInInput) Validate() error {
	return validator.Apply(
		validator.Required("email", in.Email),
		validator.ValidEmail("email", in.Email),
	)
}
