package email

import (
	"errors"
	"fmt"
)

var (
	ErrFailedToSendEmail = errors.New("mailer.errors.failed_to_send_email")
	ErrInvalidConfig     = errors.New("mailer.errors.invalid_config")
	ErrInvalidParams     = errors.New("mailer.errors.invalid_params")
)

// SendError carries the delivery service's rejection verbatim so callers can
// log it; it must never be forwarded to end users.
type SendError struct {
	Code    int64
	Message string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("delivery service rejected message: %d - %s", e.Code, e.Message)
}

// AsSendError extracts a SendError from an error chain.
func AsSendError(err error) (*SendError, bool) {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr, true
	}
	return nil, false
}
