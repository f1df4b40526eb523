// Package activity reads the audit log of the backend.
package activity

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/phil-crm/phil-console/internal/models"
)

const activityPath = "/api/activity/"

type Gateway interface {
	Get(ctx context.Context, target string, out any) error
}

type Filter struct {
	// User is the numeric id of the acting user, zero means any
	User       int64
	Action     models.ActivityAction
	EntityType models.EntityType
	DateFrom   string
	DateTo     string
	Page       int
}

func (f Filter) Query() url.Values {
	query := url.Values{}
	if f.User != 0 {
		query.Set("user", strconv.FormatInt(f.User, 10))
	}
	if f.Action != "" {
		query.Set("action", string(f.Action))
	}
	if f.EntityType != "" {
		query.Set("entity_type", string(f.EntityType))
	}
	if f.DateFrom != "" {
		query.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		query.Set("date_to", f.DateTo)
	}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	return query
}

type Client struct {
	gateway Gateway
}

func NewClient(gateway Gateway) (*Client, error) {
	if gateway == nil {
		return &Client{}, fmt.Errorf("gateway is not initialized")
	}
	return &Client{gateway: gateway}, nil
}

func (c *Client) List(ctx context.Context, filter Filter) (models.Page[models.ActivityRecord], error) {
	target := activityPath
	if query := filter.Query().Encode(); query != "" {
		target += "?" + query
	}
	return c.fetch(ctx, target)
}

// ForLink returns the history of one link. The first page is requested without a page parameter.
func (c *Client) ForLink(ctx context.Context, linkID string, page int) (models.Page[models.ActivityRecord], error) {
	target := activityPath + "link/" + url.PathEscape(linkID) + "/"
	if page > 1 {
		target += "?page=" + strconv.Itoa(page)
	}
	return c.fetch(ctx, target)
}

// Next loads the page behind a next or previous link exactly as the server returned it.
func (c *Client) Next(ctx context.Context, next string) (models.Page[models.ActivityRecord], error) {
	if next == "" {
		return models.Page[models.ActivityRecord]{}, fmt.Errorf("there is no next page")
	}
	return c.fetch(ctx, next)
}

func (c *Client) fetch(ctx context.Context, target string) (models.Page[models.ActivityRecord], error) {
	var page models.Page[models.ActivityRecord]
	if err := c.gateway.Get(ctx, target, &page); err != nil {
		return models.Page[models.ActivityRecord]{}, err
	}
	return page, nil
}
