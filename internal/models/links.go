package models

import (
	"encoding/json"
	"time"
)

type Manager struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func (m *Manager) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID        FlexString `json:"id"`
		Name      FlexString `json:"name"`
		Email     FlexString `json:"email"`
		IsActive  *bool      `json:"is_active"`
		CreatedAt FlexString `json:"created_at"`
		UpdatedAt FlexString `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*m = Manager{
		ID:        string(wire.ID),
		Name:      string(wire.Name),
		Email:     string(wire.Email),
		IsActive:  wire.IsActive != nil && *wire.IsActive,
		CreatedAt: string(wire.CreatedAt),
		UpdatedAt: string(wire.UpdatedAt),
	}
	return nil
}

// Link is one tracked piece of negative content.
type Link struct {
	ID         string   `json:"id"`
	URL        string   `json:"url"`
	Platform   Platform `json:"platform"`
	Type       LinkType `json:"type"`
	Status     Status   `json:"status"`
	DetectedAt string   `json:"detected_at"`
	RemovedAt  string   `json:"removed_at,omitempty"`
	Priority   Priority `json:"priority"`
	Manager    *Manager `json:"manager,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// UnmarshalJSON fills in the defaults for missing enum fields and drops manager references that
// are not objects carrying a string id.
func (l *Link) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID         FlexString      `json:"id"`
		URL        FlexString      `json:"url"`
		Platform   Platform        `json:"platform"`
		Type       LinkType        `json:"type"`
		Status     Status          `json:"status"`
		DetectedAt FlexString      `json:"detected_at"`
		RemovedAt  FlexString      `json:"removed_at"`
		Priority   Priority        `json:"priority"`
		Manager    json.RawMessage `json:"manager"`
		Notes      FlexString      `json:"notes"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*l = Link{
		ID:         string(wire.ID),
		URL:        string(wire.URL),
		Platform:   wire.Platform,
		Type:       wire.Type,
		Status:     wire.Status,
		DetectedAt: string(wire.DetectedAt),
		RemovedAt:  string(wire.RemovedAt),
		Priority:   wire.Priority,
		Manager:    managerReference(wire.Manager),
		Notes:      string(wire.Notes),
	}
	if l.Platform == "" {
		l.Platform = PlatformOther
	}
	if l.Type == "" {
		l.Type = LinkTypePost
	}
	if l.Status == "" {
		l.Status = StatusPending
	}
	if l.Priority == "" {
		l.Priority = PriorityMedium
	}
	return nil
}

func managerReference(raw json.RawMessage) *Manager {
	if !isJSONObject(raw) {
		return nil
	}
	var ref struct {
		ID *string `json:"id"`
	}
	if err := json.Unmarshal(raw, &ref); err != nil || ref.ID == nil {
		return nil
	}
	manager := Manager{}
	if err := json.Unmarshal(raw, &manager); err != nil {
		return nil
	}
	return &manager
}

// DetectedTime parses DetectedAt as RFC 3339 or as a plain date.
func (l Link) DetectedTime() (time.Time, error) {
	return ParseTimestamp(l.DetectedAt)
}

func (l Link) ManagerID() string {
	if l.Manager == nil {
		return ""
	}
	return l.Manager.ID
}

func ParseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}
