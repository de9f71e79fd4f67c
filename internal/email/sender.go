package email

import (
	"context"

	"ensemble_backend/internal/logger"
)

// Sender delivers one templated message to one recipient. Implementations
// must not block indefinitely; failures are recorded by the caller and never
// thrown back into the request lifecycle.
type Sender interface {
	Send(ctx context.Context, recipientEmail, templateType string, variables map[string]string) error
}

// LogSender is the development/test implementation: it only logs.
type LogSender struct{}

func (s *LogSender) Send(ctx context.Context, recipientEmail, templateType string, variables map[string]string) error {
	logger.CtxInfo(ctx, "email send (log only)",
		"recipient", recipientEmail,
		"template", templateType,
	)
	return nil
}
