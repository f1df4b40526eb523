package utils

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// GetTraceID returns the trace id of the sentry transaction attached to the context, if any.
func GetTraceID(ctx context.Context) string {
	if span := sentry.TransactionFromContext(ctx); span != nil {
		return span.TraceID.String()
	}
	return ""
}
