package upload

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// MaxScreenshotBytes caps the accepted screenshot size. The remote endpoint
// receives the file as a base64 data URL inside a JSON body, so oversized
// files would blow up the envelope long before they reach review.
const MaxScreenshotBytes = 8 << 20

// ValidationError carries the inline message shown on the upload page.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Dispatcher is the minimal remote-transport interface the service needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, action string, payload map[string]any, out any) error
}

// Archiver keeps a reviewable copy of the screenshot. Optional; archive
// failures are logged and never surface to the user.
type Archiver interface {
	Store(ctx context.Context, uploadToken, contentType string, data []byte) (string, error)
}

// Service handles the payment-proof screenshot step.
type Service interface {
	Submit(ctx context.Context, uploadToken, contentType string, file io.Reader) error
}

type service struct {
	remote  Dispatcher
	archive Archiver
}

func NewService(remote Dispatcher, archive Archiver) Service {
	return &service{remote: remote, archive: archive}
}

// Submit reads the screenshot, encodes it as a data URL, and dispatches it
// with the one-time upload token. The token authenticates the upload on its
// own; no session is involved.
func (s *service) Submit(ctx context.Context, uploadToken, contentType string, file io.Reader) error {
	if uploadToken == "" {
		return &ValidationError{Message: "Missing upload token. Use the link from your email."}
	}
	if file == nil {
		return &ValidationError{Message: "Choose a screenshot first."}
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxScreenshotBytes+1))
	if err != nil {
		return fmt.Errorf("read screenshot: %w", err)
	}
	if len(data) == 0 {
		return &ValidationError{Message: "Choose a screenshot first."}
	}
	if len(data) > MaxScreenshotBytes {
		return &ValidationError{Message: "Screenshot is too large. Keep it under 8 MB."}
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	err = s.remote.Dispatch(ctx, "uploadScreenshot", map[string]any{
		"token":      uploadToken,
		"screenshot": EncodeDataURL(contentType, data),
	}, nil)
	if err != nil {
		return err
	}

	if s.archive != nil {
		if url, archErr := s.archive.Store(ctx, uploadToken, contentType, data); archErr != nil {
			slog.Warn("screenshot archive failed", "token", uploadToken, "err", archErr)
		} else {
			slog.Info("screenshot archived", "token", uploadToken, "object", url)
		}
	}
	return nil
}

// EncodeDataURL renders the screenshot bytes as the data URL the remote
// endpoint expects.
func EncodeDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
