package models

import (
	"encoding/json"
)

// Page is one page of a paginated listing. Next and Previous are opaque URLs supplied by the
// server and are empty when there is no such page.
type Page[T any] struct {
	Count    int
	Next     string
	Previous string
	Results  []T
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var wire struct {
		Count    *float64        `json:"count"`
		Next     FlexString      `json:"next"`
		Previous FlexString      `json:"previous"`
		Results  json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = Page[T]{
		Next:     string(wire.Next),
		Previous: string(wire.Previous),
		Results:  []T{},
	}
	if wire.Count != nil {
		p.Count = int(*wire.Count)
	}
	if isJSONArray(wire.Results) {
		if err := json.Unmarshal(wire.Results, &p.Results); err != nil {
			return err
		}
	}
	return nil
}

func (p Page[T]) HasNext() bool {
	return p.Next != ""
}

// DecodeList accepts either a bare JSON array or a page object and returns its records. Anything
// else decodes to an empty list.
func DecodeList[T any](data []byte) ([]T, error) {
	items := []T{}
	if isJSONArray(data) {
		err := json.Unmarshal(data, &items)
		return items, err
	}
	if !isJSONObject(data) {
		return items, nil
	}
	var wrapper struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return items, err
	}
	if !isJSONArray(wrapper.Results) {
		return items, nil
	}
	err := json.Unmarshal(wrapper.Results, &items)
	return items, err
}
