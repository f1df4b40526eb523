// Package views keeps client side state of the console screens in sync with the backend.
package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phil-crm/phil-console/internal/config"
	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/links"
	"github.com/phil-crm/phil-console/internal/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type LinksClient interface {
	List(ctx context.Context, filter links.Filter) ([]models.Link, error)
	Create(ctx context.Context, create links.CreateLink) (models.Link, error)
	Update(ctx context.Context, id string, update links.UpdateLink) (models.Link, error)
	Delete(ctx context.Context, id string) error
	BulkUpdateStatus(ctx context.Context, ids []string, status models.Status) error
	BulkAssignManager(ctx context.Context, ids []string, managerID string) error
}

// LinksView is the collection of links shown on a platform screen. Local changes are applied
// right away and confirmed by the backend afterwards. A change the backend rejects is not undone
// field by field: the whole collection is reloaded instead.
type LinksView struct {
	client      LinksClient
	listTimeout time.Duration

	lock       sync.RWMutex
	links      *orderedmap.OrderedMap[string, models.Link]
	filter     links.Filter
	err        error
	loading    bool
	generation uint64
}

type LinksViewOption func(*LinksView) error

func WithLinksClient(client LinksClient) LinksViewOption {
	return func(v *LinksView) error {
		v.client = client
		return nil
	}
}

func WithConfig(c config.APIConfig) LinksViewOption {
	return func(v *LinksView) error {
		v.listTimeout = c.ListTimeout
		return nil
	}
}

func WithListTimeout(timeout time.Duration) LinksViewOption {
	return func(v *LinksView) error {
		v.listTimeout = timeout
		return nil
	}
}

func WithFilter(filter links.Filter) LinksViewOption {
	return func(v *LinksView) error {
		v.filter = filter
		return nil
	}
}

func NewLinksView(options ...LinksViewOption) (*LinksView, error) {
	v := LinksView{
		listTimeout: config.DefaultListTimeout,
		links:       orderedmap.New[string, models.Link](),
	}
	for _, opt := range options {
		err := opt(&v)
		if err != nil {
			return &LinksView{}, err
		}
	}
	if v.client == nil {
		return &LinksView{}, fmt.Errorf("links client is not initialized")
	}
	if v.listTimeout <= 0 {
		return &LinksView{}, fmt.Errorf("invalid list timeout %s", v.listTimeout)
	}
	return &v, nil
}

// Refetch replaces the whole collection with the current server state. When several refetches
// overlap only the one started last is applied.
func (v *LinksView) Refetch(ctx context.Context) error {
	v.lock.Lock()
	v.generation++
	generation := v.generation
	filter := v.filter
	v.loading = true
	v.lock.Unlock()

	listCtx, cancel := context.WithTimeout(ctx, v.listTimeout)
	defer cancel()
	fetched, err := v.client.List(listCtx, filter)
	if err != nil && errors.Is(listCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, gwerrors.ErrTimeout) {
		err = gwerrors.NewAPIError(gwerrors.KindTimeout, 0, gwerrors.ErrTimeout.Error(), err)
	}

	v.lock.Lock()
	defer v.lock.Unlock()
	if generation != v.generation {
		slog.Debug("LINKS VIEW", "message", "discarding the result of a superseded refetch")
		return err
	}
	v.loading = false
	if err != nil {
		v.err = err
		return err
	}
	v.links = orderedmap.New[string, models.Link]()
	for _, link := range fetched {
		v.links.Set(link.ID, link)
	}
	v.err = nil
	return nil
}

// ApplyOptimistic changes the local copy of a link without contacting the backend. Unknown ids
// are ignored.
func (v *LinksView) ApplyOptimistic(id string, change links.UpdateLink) {
	v.lock.Lock()
	defer v.lock.Unlock()
	link, found := v.links.Get(id)
	if !found {
		return
	}
	v.links.Set(id, change.ApplyTo(link))
}

// CommitMutation sends the change to the backend. On success the local copy is replaced by the
// server's version of the link. On failure the collection is reloaded and the mutation error is
// returned.
func (v *LinksView) CommitMutation(ctx context.Context, id string, change links.UpdateLink) (models.Link, error) {
	updated, err := v.client.Update(ctx, id, change)
	if err != nil {
		slog.Info("LINKS VIEW", "message", "mutation rejected, reloading links", "id", id, "error", err)
		// the reload must happen even when the caller has given up on the mutation
		if refetchErr := v.Refetch(context.WithoutCancel(ctx)); refetchErr != nil {
			slog.Error("LINKS VIEW", "message", "reloading links failed", "error", refetchErr)
		}
		v.setErr(err)
		return models.Link{}, err
	}
	v.lock.Lock()
	defer v.lock.Unlock()
	if _, found := v.links.Get(id); found {
		v.links.Set(id, updated)
	}
	return updated, nil
}

// MoveStatus is the drag and drop flow: the link changes column at once and the backend is told
// afterwards.
func (v *LinksView) MoveStatus(ctx context.Context, id string, status models.Status) (models.Link, error) {
	change := links.StatusChange(status)
	v.ApplyOptimistic(id, change)
	return v.CommitMutation(ctx, id, change)
}

// Create adds the new link in front of the collection once the backend has stored it.
func (v *LinksView) Create(ctx context.Context, create links.CreateLink) (models.Link, error) {
	created, err := v.client.Create(ctx, create)
	if err != nil {
		return models.Link{}, err
	}
	v.lock.Lock()
	defer v.lock.Unlock()
	v.links.Set(created.ID, created)
	if err := v.links.MoveToFront(created.ID); err != nil {
		return created, err
	}
	return created, nil
}

func (v *LinksView) Delete(ctx context.Context, id string) error {
	if err := v.client.Delete(ctx, id); err != nil {
		return err
	}
	v.lock.Lock()
	defer v.lock.Unlock()
	v.links.Delete(id)
	return nil
}

// BulkUpdateStatus and BulkAssignManager reload the collection afterwards, the bulk endpoints do
// not return the updated links.
func (v *LinksView) BulkUpdateStatus(ctx context.Context, ids []string, status models.Status) error {
	if err := v.client.BulkUpdateStatus(ctx, ids, status); err != nil {
		return err
	}
	return v.Refetch(ctx)
}

func (v *LinksView) BulkAssignManager(ctx context.Context, ids []string, managerID string) error {
	if err := v.client.BulkAssignManager(ctx, ids, managerID); err != nil {
		return err
	}
	return v.Refetch(ctx)
}

// Links returns a snapshot of the collection in server order.
func (v *LinksView) Links() []models.Link {
	v.lock.RLock()
	defer v.lock.RUnlock()
	snapshot := make([]models.Link, 0, v.links.Len())
	for pair := v.links.Oldest(); pair != nil; pair = pair.Next() {
		snapshot = append(snapshot, pair.Value)
	}
	return snapshot
}

func (v *LinksView) Link(id string) (models.Link, bool) {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.links.Get(id)
}

// ByStatus groups the collection into the columns of the board, keeping server order inside
// each column.
func (v *LinksView) ByStatus() map[models.Status][]models.Link {
	columns := map[models.Status][]models.Link{}
	for _, link := range v.Links() {
		columns[link.Status] = append(columns[link.Status], link)
	}
	return columns
}

// Err returns the last error of a refetch or a mutation, nil after a successful refetch.
func (v *LinksView) Err() error {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.err
}

func (v *LinksView) Loading() bool {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.loading
}

func (v *LinksView) Filter() links.Filter {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.filter
}

// SetFilter changes the filter used by the next refetch.
func (v *LinksView) SetFilter(filter links.Filter) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.filter = filter
}

func (v *LinksView) setErr(err error) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.err = err
}
