package links

import (
	"net/url"
	"strings"

	"github.com/phil-crm/phil-console/internal/models"
)

// Filter narrows down the links listing. Zero fields do not filter.
type Filter struct {
	Platform  models.Platform
	Status    models.Status
	Priority  models.Priority
	ManagerID string
	// DateFrom and DateTo bound detected_at, both ends inclusive
	DateFrom string
	DateTo   string
	Search   string
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Query returns the filter as the query parameters understood by the links endpoint.
func (f Filter) Query() url.Values {
	query := url.Values{}
	set := func(key, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}
	set("platform", string(f.Platform))
	set("status", string(f.Status))
	set("priority", string(f.Priority))
	set("manager_id", f.ManagerID)
	set("date_from", f.DateFrom)
	set("date_to", f.DateTo)
	set("search", f.Search)
	return query
}

// Match applies the filter locally, the same way the backend does for the listing.
func (f Filter) Match(link models.Link) bool {
	if f.Platform != "" && link.Platform != f.Platform {
		return false
	}
	if f.Status != "" && link.Status != f.Status {
		return false
	}
	if f.Priority != "" && link.Priority != f.Priority {
		return false
	}
	if f.ManagerID != "" && link.ManagerID() != f.ManagerID {
		return false
	}
	if !f.inDateRange(link) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(link.URL), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// inDateRange keeps links whose detection time cannot be parsed.
func (f Filter) inDateRange(link models.Link) bool {
	if f.DateFrom == "" && f.DateTo == "" {
		return true
	}
	detected, err := link.DetectedTime()
	if err != nil {
		return true
	}
	if from, err := models.ParseTimestamp(f.DateFrom); err == nil && detected.Before(from) {
		return false
	}
	if to, err := models.ParseTimestamp(f.DateTo); err == nil && detected.After(to) {
		return false
	}
	return true
}

// Apply returns the links matching the filter, keeping their order.
func (f Filter) Apply(links []models.Link) []models.Link {
	matching := make([]models.Link, 0, len(links))
	for _, link := range links {
		if f.Match(link) {
			matching = append(matching, link)
		}
	}
	return matching
}
