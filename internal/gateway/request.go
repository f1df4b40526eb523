package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/utils"
)

type response struct {
	status     int
	statusText string
	header     http.Header
	body       []byte
}

func (g *Gateway) resolve(target string) (string, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return "", gwerrors.NewAPIError(gwerrors.KindValidation, 0, fmt.Sprintf("invalid request target %q", target), err)
	}
	if parsed.IsAbs() {
		// pagination links from the server are followed exactly as given
		return target, nil
	}
	endpoint := g.config.BaseURL.JoinPath(parsed.Path)
	endpoint.RawQuery = parsed.RawQuery
	return endpoint.String(), nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, gwerrors.NewAPIError(gwerrors.KindValidation, 0, "cannot encode the request body", err)
	}
	return raw, nil
}

// send performs a single transport call. Only failures to get any response are returned as errors.
func (g *Gateway) send(ctx context.Context, method, endpoint string, body []byte, header http.Header, token string) (response, error) {
	if g.limiter != nil {
		err := g.limiter.Wait(ctx)
		if err != nil {
			return response{}, transportError(ctx, err)
		}
	}
	ctx, cancel := context.WithTimeout(ctx, g.config.RequestTimeout)
	defer cancel()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return response{}, gwerrors.NewAPIError(gwerrors.KindValidation, 0, "cannot build the request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		req.Header[http.CanonicalHeaderKey(key)] = values
	}
	if id := utils.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := g.httpClient.Do(req)
	if err != nil {
		return response{}, transportError(ctx, err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return response{}, transportError(ctx, err)
	}
	return response{
		status:     res.StatusCode,
		statusText: statusText(res),
		header:     res.Header,
		body:       raw,
	}, nil
}

func statusText(res *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
	if text == "" {
		text = http.StatusText(res.StatusCode)
	}
	return text
}

func transportError(ctx context.Context, err error) *gwerrors.APIError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return gwerrors.NewAPIError(gwerrors.KindTimeout, 0, gwerrors.ErrTimeout.Error(), err)
	}
	if errors.Is(err, context.Canceled) {
		return gwerrors.NewAPIError(gwerrors.KindNetwork, 0, "the request was cancelled", err)
	}
	return gwerrors.NewAPIError(gwerrors.KindNetwork, 0, "network error: cannot reach the backend", err)
}

func isJSON(header http.Header) bool {
	return strings.Contains(header.Get("Content-Type"), "application/json")
}

func decodeResponse(res response, out any) error {
	if res.status < 200 || res.status >= 300 {
		return normalizeError(res)
	}
	if out == nil || len(bytes.TrimSpace(res.body)) == 0 {
		return nil
	}
	if isJSON(res.header) {
		err := json.Unmarshal(res.body, out)
		if err != nil {
			return gwerrors.NewAPIError(gwerrors.KindServer, res.status, "cannot decode the backend response", err)
		}
		return nil
	}
	switch target := out.(type) {
	case *string:
		*target = string(res.body)
		return nil
	case *[]byte:
		*target = res.body
		return nil
	default:
		return gwerrors.NewAPIError(
			gwerrors.KindServer,
			res.status,
			fmt.Sprintf("expected a JSON response, got %q", res.header.Get("Content-Type")),
			nil,
		)
	}
}
