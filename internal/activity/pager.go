package activity

import (
	"context"
	"sync"

	"github.com/phil-crm/phil-console/internal/models"
)

// PageLoader loads the first page of a listing.
type PageLoader func(ctx context.Context) (models.Page[models.ActivityRecord], error)

// Pager accumulates the records of a paginated listing. Further pages are always requested
// through the next link of the previous page, never rebuilt from the filter.
type Pager struct {
	client *Client
	first  PageLoader

	lock  sync.Mutex
	items []models.ActivityRecord
	count int
	next  string
}

func (c *Client) NewPager(filter Filter) *Pager {
	return &Pager{client: c, first: func(ctx context.Context) (models.Page[models.ActivityRecord], error) {
		return c.List(ctx, filter)
	}}
}

func (c *Client) NewLinkPager(linkID string) *Pager {
	return &Pager{client: c, first: func(ctx context.Context) (models.Page[models.ActivityRecord], error) {
		return c.ForLink(ctx, linkID, 1)
	}}
}

// Load fetches the first page and replaces everything loaded so far.
func (p *Pager) Load(ctx context.Context) error {
	page, err := p.first(ctx)
	if err != nil {
		return err
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	p.items = append([]models.ActivityRecord{}, page.Results...)
	p.count = page.Count
	p.next = page.Next
	return nil
}

// LoadMore appends the next page. It does nothing when there is no next page.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.lock.Lock()
	next := p.next
	p.lock.Unlock()
	if next == "" {
		return nil
	}
	page, err := p.client.Next(ctx, next)
	if err != nil {
		return err
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.next != next {
		// the listing was reloaded meanwhile
		return nil
	}
	p.items = append(p.items, page.Results...)
	p.count = page.Count
	p.next = page.Next
	return nil
}

func (p *Pager) HasMore() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.next != ""
}

func (p *Pager) Items() []models.ActivityRecord {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]models.ActivityRecord{}, p.items...)
}

// Count is the total number of records reported by the server.
func (p *Pager) Count() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.count
}
