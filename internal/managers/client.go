// Package managers is the client of the managers resource. Managers are never removed, deleting
// one only deactivates it.
package managers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/models"
)

const managersPath = "/api/managers/"

type Gateway interface {
	Get(ctx context.Context, target string, out any) error
	Post(ctx context.Context, target string, body any, out any) error
	Patch(ctx context.Context, target string, body any, out any) error
	Delete(ctx context.Context, target string) error
}

type CreateManager struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type UpdateManager struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active,omitempty"`
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

func managerPath(id string) string {
	return managersPath + url.PathEscape(id) + "/"
}

// List returns all managers, inactive ones included.
func (c *Client) List(ctx context.Context) ([]models.Manager, error) {
	var raw json.RawMessage
	if err := c.gateway.Get(ctx, managersPath, &raw); err != nil {
		return nil, err
	}
	managers, err := models.DecodeList[models.Manager](raw)
	if err != nil {
		return nil, gwerrors.NewAPIError(gwerrors.KindServer, 0, "cannot decode the managers listing", err)
	}
	return managers, nil
}

// Active filters the managers that can still be assigned to links.
func Active(managers []models.Manager) []models.Manager {
	active := make([]models.Manager, 0, len(managers))
	for _, manager := range managers {
		if manager.IsActive {
			active = append(active, manager)
		}
	}
	return active
}

func (c *Client) Get(ctx context.Context, id string) (models.Manager, error) {
	var manager models.Manager
	err := c.gateway.Get(ctx, managerPath(id), &manager)
	if err != nil {
		if gwerrors.IsAuthFailure(err) {
			return models.Manager{}, err
		}
		return models.Manager{}, fmt.Errorf("%w: %w", gwerrors.ErrNotFound, err)
	}
	return manager, nil
}

func (c *Client) Create(ctx context.Context, create CreateManager) (models.Manager, error) {
	create.Name = strings.TrimSpace(create.Name)
	create.Email = strings.TrimSpace(create.Email)
	if err := models.Validate(create); err != nil {
		return models.Manager{}, err
	}
	var manager models.Manager
	if err := c.gateway.Post(ctx, managersPath, create, &manager); err != nil {
		return models.Manager{}, err
	}
	return manager, nil
}

func (c *Client) Update(ctx context.Context, id string, update UpdateManager) (models.Manager, error) {
	if err := models.Validate(update); err != nil {
		return models.Manager{}, err
	}
	var manager models.Manager
	if err := c.gateway.Patch(ctx, managerPath(id), update, &manager); err != nil {
		return models.Manager{}, err
	}
	return manager, nil
}

// Delete deactivates the manager, it stays in the listing.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.gateway.Delete(ctx, managerPath(id))
}
