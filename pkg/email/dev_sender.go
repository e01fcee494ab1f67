package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DevSender implements TemplateSender for local development. It writes the
// send request as a JSON file to a directory instead of calling Postmark.
type DevSender struct {
	dir string
}

// NewDevSender creates a development sender that saves send requests to disk.
// The directory is created on first send if it doesn't exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

// SendTemplate saves the send parameters as a timestamped JSON file.
func (d *DevSender) SendTemplate(ctx context.Context, params SendTemplateParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal params: %v", ErrFailedToSendEmail, err)
	}

	filename := fmt.Sprintf("%s_template_%d.json", time.Now().Format("2006_01_02_150405.000"), params.TemplateID)
	if err := os.WriteFile(filepath.Join(d.dir, filename), data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write file: %v", ErrFailedToSendEmail, err)
	}

	return nil
}
