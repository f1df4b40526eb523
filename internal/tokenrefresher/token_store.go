package tokenrefresher

import (
	"context"

	"github.com/phil-crm/phil-console/internal/models"
)

// RefresherSessionStore is the read side of the session store used to decide whether a refresh is due
type RefresherSessionStore interface {
	Get(ctx context.Context) (models.Session, bool)
	IsRefreshDue(ctx context.Context) bool
}

// Refresher runs the shared refresh, gateway.Gateway implements it so that scheduled and
// reactive refreshes never overlap.
type Refresher interface {
	Refresh(ctx context.Context) error
}
