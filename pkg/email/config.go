package email

// Config holds delivery service credentials and sender identity.
// Tokens are optional so development environments can swap in the dev
// sender; the Postmark constructor still refuses to start without them.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SMTP_FROM,required"`
}
