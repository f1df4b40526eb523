package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestWithRequestID(t *testing.T) {
	ctx, id := WithRequestID(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, id, RequestIDFromContext(ctx))

	same, sameID := WithRequestID(ctx)
	assert.Equal(t, id, sameID)
	assert.Equal(t, ctx, same)
}

func TestRequestIDFromEmptyContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestGetRequestID(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "abc")

	assert.Equal(t, "abc", GetRequestID(c))
}

func TestGetTraceIDFromTransaction(t *testing.T) {
	span := sentry.StartSpan(context.Background(), "http.client", sentry.TransactionName("links"))
	defer span.Finish()

	traceID := GetTraceID(span.Context())

	assert.Equal(t, span.TraceID.String(), traceID)
	assert.Len(t, traceID, 32)
}
