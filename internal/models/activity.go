package models

import (
	"encoding/json"
	"strconv"
)

type ActivityRecord struct {
	ID         string         `json:"id"`
	User       *int64         `json:"user"`
	Username   string         `json:"username,omitempty"`
	Action     ActivityAction `json:"action"`
	EntityType EntityType     `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	OldValue   map[string]any `json:"old_value"`
	NewValue   map[string]any `json:"new_value"`
	Timestamp  string         `json:"timestamp"`
	IPAddress  string         `json:"ip_address,omitempty"`
}

func (r *ActivityRecord) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID         FlexString      `json:"id"`
		User       FlexString      `json:"user"`
		Username   FlexString      `json:"username"`
		Action     ActivityAction  `json:"action"`
		EntityType EntityType      `json:"entity_type"`
		EntityID   FlexString      `json:"entity_id"`
		OldValue   json.RawMessage `json:"old_value"`
		NewValue   json.RawMessage `json:"new_value"`
		Timestamp  FlexString      `json:"timestamp"`
		IPAddress  FlexString      `json:"ip_address"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = ActivityRecord{
		ID:         string(wire.ID),
		Username:   string(wire.Username),
		Action:     wire.Action,
		EntityType: wire.EntityType,
		EntityID:   string(wire.EntityID),
		OldValue:   objectValue(wire.OldValue),
		NewValue:   objectValue(wire.NewValue),
		Timestamp:  string(wire.Timestamp),
		IPAddress:  string(wire.IPAddress),
	}
	if user, err := strconv.ParseInt(string(wire.User), 10, 64); err == nil {
		r.User = &user
	}
	if r.Action == "" {
		r.Action = ActionUpdated
	}
	if r.EntityType == "" {
		r.EntityType = EntityLink
	}
	return nil
}

func objectValue(raw json.RawMessage) map[string]any {
	if !isJSONObject(raw) {
		return nil
	}
	value := map[string]any{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return value
}
