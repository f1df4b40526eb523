// Package gateway sends authenticated requests to the backend. A request rejected with 401 triggers
// one shared token refresh and is replayed once with the new token.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/phil-crm/phil-console/internal/config"
	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/metrics"
	"github.com/phil-crm/phil-console/internal/models"
	"github.com/phil-crm/phil-console/internal/utils"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// SessionStore is the part of sessions.SessionStore the gateway relies on.
type SessionStore interface {
	Get(ctx context.Context) (models.Session, bool)
	AccessToken(ctx context.Context) string
	IsRefreshDue(ctx context.Context) bool
	Clear(ctx context.Context) error
}

// Refresher exchanges the stored refresh token for a new access token and commits it to the
// session store. It is called at most once at a time through the gateway.
type Refresher interface {
	Refresh(ctx context.Context) (models.Session, error)
}

type RequestOptions struct {
	Method string
	// Body is JSON encoded when it is not nil
	Body   any
	Header http.Header
	// SkipAuth sends the request without credentials and never refreshes
	SkipAuth bool
}

func (o RequestOptions) method() string {
	if o.Method == "" {
		return http.MethodGet
	}
	return o.Method
}

type Gateway struct {
	config       config.APIConfig
	sessionStore SessionStore
	refresher    Refresher
	httpClient   *http.Client
	metrics      *metrics.GatewayMetrics
	limiter      *rate.Limiter
	refreshGroup *singleflight.Group
	lock         *sync.RWMutex
}

type GatewayOption func(*Gateway) error

func WithConfig(c config.APIConfig) GatewayOption {
	return func(g *Gateway) error {
		g.config = c
		if c.RateLimits.Enabled {
			g.limiter = rate.NewLimiter(rate.Limit(c.RateLimits.Rate), c.RateLimits.Burst)
		}
		return nil
	}
}

func WithSessionStore(store SessionStore) GatewayOption {
	return func(g *Gateway) error {
		g.sessionStore = store
		return nil
	}
}

func WithRefresher(refresher Refresher) GatewayOption {
	return func(g *Gateway) error {
		g.refresher = refresher
		return nil
	}
}

func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *Gateway) error {
		g.httpClient = client
		return nil
	}
}

func WithMetrics(m *metrics.GatewayMetrics) GatewayOption {
	return func(g *Gateway) error {
		g.metrics = m
		return nil
	}
}

func WithRateLimit(r float64, burst int) GatewayOption {
	return func(g *Gateway) error {
		if r <= 0 || burst <= 0 {
			return fmt.Errorf("rate limits need a positive rate and burst")
		}
		g.limiter = rate.NewLimiter(rate.Limit(r), burst)
		return nil
	}
}

func NewGateway(options ...GatewayOption) (*Gateway, error) {
	g := Gateway{
		httpClient:   &http.Client{},
		refreshGroup: &singleflight.Group{},
		lock:         &sync.RWMutex{},
	}
	for _, opt := range options {
		err := opt(&g)
		if err != nil {
			return &Gateway{}, err
		}
	}
	if g.config.BaseURL == nil {
		return &Gateway{}, fmt.Errorf("api config is not initialized")
	}
	if g.sessionStore == nil {
		return &Gateway{}, fmt.Errorf("session store is not initialized")
	}
	if g.httpClient == nil {
		return &Gateway{}, fmt.Errorf("http client is not initialized")
	}
	if g.config.RequestTimeout <= 0 {
		g.config.RequestTimeout = config.DefaultRequestTimeout
	}
	return &g, nil
}

// SetRefresher installs the refresher after construction, the auth service needs the gateway to
// exist before it can be built.
func (g *Gateway) SetRefresher(refresher Refresher) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.refresher = refresher
}

func (g *Gateway) getRefresher() Refresher {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.refresher
}

// Do runs one logical call. The target is a path resolved against the base URL or an absolute URL
// used as-is. A successful JSON body is decoded into out when out is not nil. Every failure is an
// *gwerrors.APIError.
func (g *Gateway) Do(ctx context.Context, target string, opts RequestOptions, out any) error {
	start := time.Now()
	ctx, requestID := utils.WithRequestID(ctx)
	err := g.do(ctx, target, opts, out)
	g.metrics.ObserveRequest(opts.method(), outcome(err), time.Since(start).Seconds())
	if err != nil {
		slog.Info(
			"GATEWAY",
			"message", "request failed",
			"method", opts.method(),
			"target", target,
			"error", err,
			"requestID", requestID,
			"traceID", utils.GetTraceID(ctx),
		)
		return err
	}
	slog.Debug("GATEWAY", "message", "request done", "method", opts.method(), "target", target, "requestID", requestID)
	return nil
}

func (g *Gateway) do(ctx context.Context, target string, opts RequestOptions, out any) error {
	endpoint, err := g.resolve(target)
	if err != nil {
		return err
	}
	body, err := encodeBody(opts.Body)
	if err != nil {
		return err
	}
	token := ""
	if !opts.SkipAuth {
		token = g.sessionStore.AccessToken(ctx)
	}
	res, err := g.send(ctx, opts.method(), endpoint, body, opts.Header, token)
	if err != nil {
		return err
	}
	if res.status != http.StatusUnauthorized || token == "" {
		return decodeResponse(res, out)
	}

	refreshErr := g.refreshAfter(ctx, token)
	if errors.Is(refreshErr, context.Canceled) || errors.Is(refreshErr, context.DeadlineExceeded) {
		// the caller gave up waiting, the session itself is still valid
		return transportError(ctx, refreshErr)
	}
	if refreshErr != nil {
		apiErr := normalizeError(res)
		apiErr.Err = refreshErr
		return apiErr
	}
	newToken := g.sessionStore.AccessToken(ctx)
	if newToken == "" {
		return normalizeError(res)
	}
	g.metrics.ObserveRetry()
	slog.Debug("GATEWAY", "message", "replaying request with a refreshed token", "requestID", utils.RequestIDFromContext(ctx))
	res, err = g.send(ctx, opts.method(), endpoint, body, opts.Header, newToken)
	if err != nil {
		return err
	}
	if res.status == http.StatusUnauthorized {
		// a token minted moments ago was rejected, the session cannot be used any more
		if clearErr := g.sessionStore.Clear(ctx); clearErr != nil {
			slog.Error("GATEWAY", "message", "could not clear the rejected session", "error", clearErr)
		}
	}
	return decodeResponse(res, out)
}

func (g *Gateway) Get(ctx context.Context, target string, out any) error {
	return g.Do(ctx, target, RequestOptions{Method: http.MethodGet}, out)
}

func (g *Gateway) Post(ctx context.Context, target string, body any, out any) error {
	return g.Do(ctx, target, RequestOptions{Method: http.MethodPost, Body: body}, out)
}

func (g *Gateway) Patch(ctx context.Context, target string, body any, out any) error {
	return g.Do(ctx, target, RequestOptions{Method: http.MethodPatch, Body: body}, out)
}

func (g *Gateway) Delete(ctx context.Context, target string) error {
	return g.Do(ctx, target, RequestOptions{Method: http.MethodDelete}, nil)
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	var apiErr *gwerrors.APIError
	if !errors.As(err, &apiErr) {
		return metrics.OutcomeNetwork
	}
	switch apiErr.Kind {
	case gwerrors.KindUnauthorized, gwerrors.KindSessionExpired:
		return metrics.OutcomeUnauthorized
	case gwerrors.KindValidation:
		return metrics.OutcomeValidation
	case gwerrors.KindServer:
		return metrics.OutcomeServer
	case gwerrors.KindTimeout:
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeNetwork
	}
}
