// Package links is the client of the negative links resource.
package links

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/models"
)

const (
	linksPath          = "/api/links/"
	bulkStatusPath     = "/api/links/bulk-update-status/"
	bulkAssignmentPath = "/api/links/bulk-assign-manager/"
)

// Gateway is the subset of gateway.Gateway the resource clients use.
type Gateway interface {
	Get(ctx context.Context, target string, out any) error
	Post(ctx context.Context, target string, body any, out any) error
	Patch(ctx context.Context, target string, body any, out any) error
	Delete(ctx context.Context, target string) error
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

func linkPath(id string) string {
	return linksPath + url.PathEscape(id) + "/"
}

// List returns the links matching the filter. The endpoint answers with either a bare array or a
// page, only the records are kept.
func (c *Client) List(ctx context.Context, filter Filter) ([]models.Link, error) {
	target := linksPath
	if query := filter.Query().Encode(); query != "" {
		target += "?" + query
	}
	var raw json.RawMessage
	if err := c.gateway.Get(ctx, target, &raw); err != nil {
		return nil, err
	}
	links, err := models.DecodeList[models.Link](raw)
	if err != nil {
		return nil, gwerrors.NewAPIError(gwerrors.KindServer, 0, "cannot decode the links listing", err)
	}
	return links, nil
}

// Get returns gwerrors.ErrNotFound for any failure to load the link.
func (c *Client) Get(ctx context.Context, id string) (models.Link, error) {
	var link models.Link
	err := c.gateway.Get(ctx, linkPath(id), &link)
	if err != nil {
		slog.Debug("LINKS", "message", "could not load link", "id", id, "error", err)
		if gwerrors.IsAuthFailure(err) {
			return models.Link{}, err
		}
		return models.Link{}, fmt.Errorf("%w: %w", gwerrors.ErrNotFound, err)
	}
	return link, nil
}

func (c *Client) Create(ctx context.Context, create CreateLink) (models.Link, error) {
	create = create.normalized()
	if err := models.Validate(create); err != nil {
		return models.Link{}, err
	}
	var link models.Link
	if err := c.gateway.Post(ctx, linksPath, create, &link); err != nil {
		return models.Link{}, err
	}
	return link, nil
}

func (c *Client) Update(ctx context.Context, id string, update UpdateLink) (models.Link, error) {
	if err := models.Validate(update); err != nil {
		return models.Link{}, err
	}
	var link models.Link
	if err := c.gateway.Patch(ctx, linkPath(id), update, &link); err != nil {
		return models.Link{}, err
	}
	return link, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.gateway.Delete(ctx, linkPath(id))
}

func (c *Client) BulkUpdateStatus(ctx context.Context, ids []string, status models.Status) error {
	if len(ids) == 0 {
		return gwerrors.ErrEmptySelection
	}
	if !status.Valid() {
		return gwerrors.NewAPIError(gwerrors.KindValidation, 0, fmt.Sprintf("unknown status %q", status), nil)
	}
	return c.gateway.Post(ctx, bulkStatusPath, bulkStatusRequest{IDs: ids, Status: status}, nil)
}

func (c *Client) BulkAssignManager(ctx context.Context, ids []string, managerID string) error {
	if len(ids) == 0 {
		return gwerrors.ErrEmptySelection
	}
	return c.gateway.Post(ctx, bulkAssignmentPath, bulkAssignRequest{IDs: ids, ManagerID: managerID}, nil)
}
