package auth_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybergaz/Hashira/pkg/email"
	"github.com/cybergaz/Hashira/svc/auth"
)

func verificationConfig() auth.VerificationConfig {
	return auth.VerificationConfig{
		ActivationTemplateID: 1001,
		SignInTemplateID:     1002,
		ProductName:          "Hashira",
	}
}

func TestVerificationMailerSend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown address gets the activation template", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		mailer := auth.NewVerificationMailer(verificationConfig(), sender, newMemStore())

		require.NoError(t, mailer.Send(ctx, "new@example.com", "https://hashira.example/activate"))
		assert.Equal(t, int64(1001), sender.last().TemplateID)
	})

	t.Run("unverified user gets the activation template", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.put(auth.User{Email: "pending@example.com"})

		sender := &fakeSender{}
		mailer := auth.NewVerificationMailer(verificationConfig(), sender, store)

		require.NoError(t, mailer.Send(ctx, "pending@example.com", "https://hashira.example/activate"))
		assert.Equal(t, int64(1001), sender.last().TemplateID)
	})

	t.Run("verified user gets the returning sign-in template", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		store := newMemStore()
		store.put(auth.User{Email: "known@example.com", EmailVerifiedAt: &now})

		sender := &fakeSender{}
		mailer := auth.NewVerificationMailer(verificationConfig(), sender, store)

		require.NoError(t, mailer.Send(ctx, "known@example.com", "https://hashira.example/signin"))
		assert.Equal(t, int64(1002), sender.last().TemplateID)
	})

	t.Run("message carries action url and anti-threading header", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		mailer := auth.NewVerificationMailer(verificationConfig(), sender, newMemStore())

		require.NoError(t, mailer.Send(ctx, "new@example.com", "https://hashira.example/activate?token=abc"))

		sent := sender.last()
		assert.Equal(t, "new@example.com", sent.SendTo)
		assert.Equal(t, "https://hashira.example/activate?token=abc", sent.Model["action_url"])
		assert.Equal(t, "Hashira", sent.Model["product_name"])

		ref := sent.Headers["X-Entity-Ref-ID"]
		require.NotEmpty(t, ref)
		_, err := strconv.ParseInt(ref, 10, 64)
		assert.NoError(t, err, "header must be a timestamp-derived value")
	})

	t.Run("repeated sends carry distinct header values", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		mailer := auth.NewVerificationMailer(verificationConfig(), sender, newMemStore())

		require.NoError(t, mailer.Send(ctx, "new@example.com", "https://hashira.example/a"))
		first := sender.last().Headers["X-Entity-Ref-ID"]

		time.Sleep(2 * time.Millisecond)

		require.NoError(t, mailer.Send(ctx, "new@example.com", "https://hashira.example/b"))
		assert.NotEqual(t, first, sender.last().Headers["X-Entity-Ref-ID"])
	})

	t.Run("missing template id fails loudly without sending", func(t *testing.T) {
		t.Parallel()

		cfg := verificationConfig()
		cfg.ActivationTemplateID = 0

		sender := &fakeSender{}
		mailer := auth.NewVerificationMailer(cfg, sender, newMemStore())

		err := mailer.Send(ctx, "new@example.com", "https://hashira.example/activate")
		assert.ErrorIs(t, err, auth.ErrMissingTemplate)
		assert.Zero(t, sender.count())
	})

	t.Run("delivery rejection surfaces with the service error preserved", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{failWith: errors.Join(
			email.ErrFailedToSendEmail,
			&email.SendError{Code: 406, Message: "inactive recipient"},
		)}
		mailer := auth.NewVerificationMailer(verificationConfig(), sender, newMemStore())

		err := mailer.Send(ctx, "new@example.com", "https://hashira.example/activate")
		assert.ErrorIs(t, err, auth.ErrDeliveryFailed)

		sendErr, ok := email.AsSendError(err)
		require.True(t, ok)
		assert.Equal(t, int64(406), sendErr.Code)
	})

	t.Run("store failure aborts the send", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.failWith = errors.New("connection refused")

		sender := &fakeSender{}
		mailer := auth.NewVerificationMailer(verificationConfig(), sender, store)

		err := mailer.Send(ctx, "new@example.com", "https://hashira.example/activate")
		assert.ErrorIs(t, err, auth.ErrStoreFailure)
		assert.Zero(t, sender.count())
	})
}
