package email

import (
	"context"
	"fmt"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TemplateSender sends transactional emails rendered from a template stored
// at the delivery service.
type TemplateSender interface {
	SendTemplate(ctx context.Context, params SendTemplateParams) error
}

// SendTemplateParams describes a single templated email send.
type SendTemplateParams struct {
	TemplateID int64             `json:"template_id"`       // Delivery-service template identifier
	SendTo     string            `json:"send_to"`           // Email address of the recipient
	Model      map[string]any    `json:"model,omitempty"`   // Values substituted into the template
	Headers    map[string]string `json:"headers,omitempty"` // Extra message headers
	Tag        string            `json:"tag,omitempty"`     // Optional
}

// Validate checks that the parameters identify a template and a recipient.
func (p SendTemplateParams) Validate() error {
	if p.TemplateID <= 0 {
		return fmt.Errorf("%w: template id is required", ErrInvalidParams)
	}
	if p.SendTo == "" || !emailRegex.MatchString(p.SendTo) {
		return fmt.Errorf("%w: recipient must be a valid email address", ErrInvalidParams)
	}
	return nil
}
