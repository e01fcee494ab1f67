package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkClient struct {
	client *postmark.Client
	config Config
}

// NewPostmarkClient creates a Postmark-backed template sender.
// Both tokens are required for runtime operation - this enforces explicit
// configuration rather than silent failures in production.
func NewPostmarkClient(cfg Config) (TemplateSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" || !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	return &postmarkClient{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

// MustNewPostmarkClient creates a Postmark client that panics on invalid
// config, failing fast during initialization.
func MustNewPostmarkClient(cfg Config) TemplateSender {
	client, err := NewPostmarkClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// SendTemplate implements TemplateSender on Postmark's templated email API.
// A non-zero error code in the response surfaces as a SendError carrying the
// service's message; the caller owns any retry policy.
func (c *postmarkClient) SendTemplate(ctx context.Context, params SendTemplateParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	var headers []postmark.Header
	for name, value := range params.Headers {
		headers = append(headers, postmark.Header{Name: name, Value: value})
	}

	resp, err := c.client.SendTemplatedEmail(ctx, postmark.TemplatedEmail{
		TemplateID:    params.TemplateID,
		TemplateModel: params.Model,
		From:          c.config.SenderEmail,
		To:            params.SendTo,
		Tag:           params.Tag,
		Headers:       headers,
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			&SendError{Code: resp.ErrorCode, Message: resp.Message},
		)
	}
	return nil
}
