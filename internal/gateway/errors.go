package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/phil-crm/phil-console/internal/gwerrors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type errorFields = orderedmap.OrderedMap[string, json.RawMessage]

// messageAccessor extracts a display message from a JSON error body, the first accessor that
// finds one wins.
type messageAccessor func(fields *errorFields) (string, bool)

var messageAccessors = []messageAccessor{
	stringField("detail"),
	stringField("message"),
	stringField("error"),
	fieldErrors,
}

func stringField(name string) messageAccessor {
	return func(fields *errorFields) (string, bool) {
		raw, found := fields.Get(name)
		if !found {
			return "", false
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil || value == "" {
			return "", false
		}
		return value, true
	}
}

// fieldErrors joins validation errors of the form {"field": ["e1", "e2"]} into
// "field: e1, e2; other: e3", keeping the order the server sent the fields in.
func fieldErrors(fields *errorFields) (string, bool) {
	parts := []string{}
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		var values []json.RawMessage
		if err := json.Unmarshal(pair.Value, &values); err != nil || len(values) == 0 {
			continue
		}
		texts := make([]string, 0, len(values))
		for _, value := range values {
			texts = append(texts, rawText(value))
		}
		parts = append(parts, pair.Key+": "+strings.Join(texts, ", "))
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "; "), true
}

func rawText(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(bytes.TrimSpace(raw))
}

func errorMessage(res response) string {
	// some proxies send JSON errors with a text content type
	fields := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(res.body, fields); err == nil {
		for _, accessor := range messageAccessors {
			if message, ok := accessor(fields); ok {
				return message
			}
		}
	}
	if res.statusText != "" {
		return res.statusText
	}
	return fmt.Sprintf("HTTP %d", res.status)
}

func errorKind(status int) gwerrors.Kind {
	switch {
	case status == http.StatusUnauthorized:
		return gwerrors.KindUnauthorized
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return gwerrors.KindTimeout
	case status >= 500:
		return gwerrors.KindServer
	default:
		return gwerrors.KindValidation
	}
}

// normalizeError turns a non-2xx response into the single error shape used by all callers.
func normalizeError(res response) *gwerrors.APIError {
	return gwerrors.NewAPIError(errorKind(res.status), res.status, errorMessage(res), nil)
}
