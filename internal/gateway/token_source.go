package gateway

import (
	"context"

	"github.com/phil-crm/phil-console/internal/gwerrors"
	"golang.org/x/oauth2"
)

type tokenSource struct {
	ctx     context.Context
	gateway *Gateway
}

// Token refreshes through the shared path when the session is due and returns the current token.
func (t tokenSource) Token() (*oauth2.Token, error) {
	if t.gateway.sessionStore.IsRefreshDue(t.ctx) {
		err := t.gateway.Refresh(t.ctx)
		if err != nil {
			return nil, err
		}
	}
	session, found := t.gateway.sessionStore.Get(t.ctx)
	if !found {
		return nil, gwerrors.ErrSessionExpired
	}
	return session.OAuth2Token(), nil
}

// TokenSource exposes the session as an oauth2.TokenSource, e.g. for oauth2.NewClient.
func (g *Gateway) TokenSource(ctx context.Context) oauth2.TokenSource {
	return tokenSource{ctx: ctx, gateway: g}
}
