package links

import (
	"encoding/json"
	"strings"

	"github.com/phil-crm/phil-console/internal/models"
)

type CreateLink struct {
	URL       string          `json:"url" validate:"required,url"`
	Platform  models.Platform `json:"platform" validate:"required,enum"`
	Type      models.LinkType `json:"type" validate:"required,enum"`
	Status    models.Status   `json:"status" validate:"omitempty,enum"`
	Priority  models.Priority `json:"priority" validate:"omitempty,enum"`
	ManagerID string          `json:"manager_id,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// normalized trims the optional fields and fills in the defaults the backend expects.
func (c CreateLink) normalized() CreateLink {
	c.URL = strings.TrimSpace(c.URL)
	c.Notes = strings.TrimSpace(c.Notes)
	c.ManagerID = strings.TrimSpace(c.ManagerID)
	if c.Status == "" {
		c.Status = models.StatusPending
	}
	if c.Priority == "" {
		c.Priority = models.PriorityMedium
	}
	return c
}

// UpdateLink is a partial update, nil fields are not sent. A ManagerID pointing to an empty
// string unassigns the manager.
type UpdateLink struct {
	URL       *string          `json:"url,omitempty" validate:"omitempty,url"`
	Platform  *models.Platform `json:"platform,omitempty" validate:"omitempty,enum"`
	Type      *models.LinkType `json:"type,omitempty" validate:"omitempty,enum"`
	Status    *models.Status   `json:"status,omitempty" validate:"omitempty,enum"`
	Priority  *models.Priority `json:"priority,omitempty" validate:"omitempty,enum"`
	ManagerID *string          `json:"manager_id,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
	RemovedAt *string          `json:"removed_at,omitempty"`
}

// MarshalJSON sends an unassigned manager as null.
func (u UpdateLink) MarshalJSON() ([]byte, error) {
	type plain UpdateLink
	wire := struct {
		plain
		ManagerID json.RawMessage `json:"manager_id,omitempty"`
	}{plain: plain(u)}
	if u.ManagerID != nil {
		if *u.ManagerID == "" {
			wire.ManagerID = json.RawMessage("null")
		} else {
			raw, err := json.Marshal(*u.ManagerID)
			if err != nil {
				return nil, err
			}
			wire.ManagerID = raw
		}
	}
	return json.Marshal(wire)
}

// ApplyTo returns the link as it would look after the update, it is used for optimistic updates
// before the backend confirms them.
func (u UpdateLink) ApplyTo(link models.Link) models.Link {
	if u.URL != nil {
		link.URL = *u.URL
	}
	if u.Platform != nil {
		link.Platform = *u.Platform
	}
	if u.Type != nil {
		link.Type = *u.Type
	}
	if u.Status != nil {
		link.Status = *u.Status
	}
	if u.Priority != nil {
		link.Priority = *u.Priority
	}
	if u.ManagerID != nil {
		if *u.ManagerID == "" {
			link.Manager = nil
		} else if link.ManagerID() != *u.ManagerID {
			link.Manager = &models.Manager{ID: *u.ManagerID, IsActive: true}
		}
	}
	if u.Notes != nil {
		link.Notes = *u.Notes
	}
	if u.RemovedAt != nil {
		link.RemovedAt = *u.RemovedAt
	}
	return link
}

// StatusChange is the update issued when a link is moved to another status column.
func StatusChange(status models.Status) UpdateLink {
	return UpdateLink{Status: &status}
}

type bulkStatusRequest struct {
	IDs    []string      `json:"ids"`
	Status models.Status `json:"status"`
}

type bulkAssignRequest struct {
	IDs       []string `json:"ids"`
	ManagerID string   `json:"manager_id"`
}
