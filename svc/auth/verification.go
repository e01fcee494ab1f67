package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cybergaz/Hashira/pkg/email"
)

// Header set on every verification email to stop Gmail from threading
// repeated sign-in messages into one conversation.
const entityRefHeader = "X-Entity-Ref-ID"

// VerificationConfig selects the delivery-service templates used for
// email-link sign-in. Both IDs are required deployment configuration; there
// is deliberately no default template to fall back to.
type VerificationConfig struct {
	ActivationTemplateID int64  `env:"POSTMARK_ACTIVATION_TEMPLATE"`
	SignInTemplateID     int64  `env:"POSTMARK_SIGN_IN_TEMPLATE"`
	ProductName          string `env:"PRODUCT_NAME" envDefault:"Hashira"`
}

// VerificationMailer decides which message template a sign-in link gets and
// delegates delivery to the email service.
type VerificationMailer struct {
	cfg    VerificationConfig
	sender email.TemplateSender
	users  UserStore
	now    func() time.Time
}

// NewVerificationMailer wires template selection against the user store and
// the delivery service.
func NewVerificationMailer(cfg VerificationConfig, sender email.TemplateSender, users UserStore) *VerificationMailer {
	return &VerificationMailer{cfg: cfg, sender: sender, users: users, now: time.Now}
}

// Send delivers the sign-in link to the address. Users who have verified
// their email before get the returning sign-in template; first-timers (and
// addresses with no record yet) get the activation template.
//
// A missing template ID fails the send loudly: it indicates a deployment
// defect, and a silent default would train users on the wrong message.
// Delivery-service rejections surface as ErrDeliveryFailed with the
// service's error preserved in the chain; retrying belongs to the caller.
func (m *VerificationMailer) Send(ctx context.Context, to, actionURL string) error {
	templateID := m.cfg.ActivationTemplateID

	user, err := m.users.FindUserByEmail(ctx, to)
	switch {
	case err == nil:
		if user.Verified() {
			templateID = m.cfg.SignInTemplateID
		}
	case errors.Is(err, ErrUserNotFound):
		// First contact with this address; activation template stands.
	default:
		return errors.Join(ErrStoreFailure, err)
	}

	if templateID <= 0 {
		return fmt.Errorf("%w: verification send for %q aborted", ErrMissingTemplate, to)
	}

	err = m.sender.SendTemplate(ctx, email.SendTemplateParams{
		TemplateID: templateID,
		SendTo:     to,
		Model: map[string]any{
			"action_url":   actionURL,
			"product_name": m.cfg.ProductName,
		},
		Headers: map[string]string{
			entityRefHeader: strconv.FormatInt(m.now().UnixMilli(), 10),
		},
	})
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	return nil
}
