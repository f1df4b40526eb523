package gateway

import (
	"context"
	"log/slog"

	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/metrics"
	"github.com/phil-crm/phil-console/internal/utils"
)

const refreshKey = "refresh"

// Refresh renews the access token. Concurrent callers share one underlying refresh and all of them
// observe its result. A caller whose context ends stops waiting but does not abort the refresh for
// the others.
func (g *Gateway) Refresh(ctx context.Context) error {
	return g.refreshAfter(ctx, "")
}

// refreshAfter skips the refresh when the token that was rejected has already been replaced by
// another caller.
func (g *Gateway) refreshAfter(ctx context.Context, staleToken string) error {
	refresher := g.getRefresher()
	if refresher == nil {
		return gwerrors.ErrSessionExpired
	}
	if staleToken != "" {
		current := g.sessionStore.AccessToken(ctx)
		if current != "" && current != staleToken {
			g.metrics.ObserveRefresh(metrics.RefreshResultSkipped)
			return nil
		}
	}
	requestID := utils.RequestIDFromContext(ctx)
	results := g.refreshGroup.DoChan(refreshKey, func() (any, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.config.RequestTimeout)
		defer cancel()
		session, err := refresher.Refresh(refreshCtx)
		if err != nil {
			g.metrics.ObserveRefresh(metrics.RefreshResultFailed)
			slog.Info("GATEWAY", "message", "token refresh failed", "error", err, "requestID", requestID)
			return nil, err
		}
		g.metrics.ObserveRefresh(metrics.RefreshResultOK)
		slog.Info("GATEWAY", "message", "token refreshed", "session", session, "requestID", requestID)
		return nil, nil
	})
	select {
	case res := <-results:
		if res.Shared {
			slog.Debug("GATEWAY", "message", "joined a refresh already in flight", "requestID", requestID)
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}
