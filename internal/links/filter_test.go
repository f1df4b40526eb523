package links

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/phil-crm/phil-console/internal/models"
	"github.com/stretchr/testify/assert"
)

var sampleLink = models.Link{
	ID:         "l-1",
	URL:        "https://www.Reddit.com/r/example/comments/abc",
	Platform:   models.PlatformReddit,
	Type:       models.LinkTypeComment,
	Status:     models.StatusInWork,
	DetectedAt: "2024-03-10T08:30:00Z",
	Priority:   models.PriorityHigh,
	Manager:    &models.Manager{ID: "m-1", Name: "Ann"},
}

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		expected bool
	}{
		{"empty filter", Filter{}, true},
		{"platform", Filter{Platform: models.PlatformReddit}, true},
		{"other platform", Filter{Platform: models.PlatformTwitter}, false},
		{"status", Filter{Status: models.StatusRemoved}, false},
		{"priority", Filter{Priority: models.PriorityHigh}, true},
		{"manager", Filter{ManagerID: "m-1"}, true},
		{"other manager", Filter{ManagerID: "m-2"}, false},
		{"search ignores case", Filter{Search: "reddit.COM/r/example"}, true},
		{"search misses", Filter{Search: "facebook"}, false},
		{"date range includes day", Filter{DateFrom: "2024-03-10T00:00:00Z", DateTo: "2024-03-11"}, true},
		{"detected before range", Filter{DateFrom: "2024-03-11"}, false},
		{"detected after range", Filter{DateTo: "2024-03-09"}, false},
		{"unparsable bound is ignored", Filter{DateFrom: "last week"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Match(sampleLink))
		})
	}
}

func TestFilterMatchUnassigned(t *testing.T) {
	link := sampleLink
	link.Manager = nil

	assert.False(t, Filter{ManagerID: "m-1"}.Match(link))
}

func TestFilterApplyKeepsOrder(t *testing.T) {
	second := sampleLink
	second.ID = "l-2"
	other := sampleLink
	other.ID = "l-3"
	other.Platform = models.PlatformFacebook

	matching := Filter{Platform: models.PlatformReddit}.Apply([]models.Link{second, other, sampleLink})

	assert.Equal(t, []string{"l-2", "l-1"}, []string{matching[0].ID, matching[1].ID})
}

func TestFilterQuery(t *testing.T) {
	filter := Filter{
		Platform:  models.PlatformTwitter,
		Status:    models.StatusActive,
		Priority:  models.PriorityLow,
		ManagerID: "m-1",
		DateFrom:  "2024-01-01",
		DateTo:    "2024-01-31",
		Search:    "spam",
	}

	assert.Equal(
		t,
		"date_from=2024-01-01&date_to=2024-01-31&manager_id=m-1&platform=twitter&priority=low&search=spam&status=active",
		filter.Query().Encode(),
	)
	assert.Empty(t, Filter{}.Query())
	assert.True(t, Filter{}.IsZero())
	assert.False(t, filter.IsZero())
}

func TestUpdateLinkApplyTo(t *testing.T) {
	status := models.StatusRemoved
	removedAt := "2024-03-12T00:00:00Z"
	manager := "m-2"
	unassigned := ""

	moved := UpdateLink{Status: &status, RemovedAt: &removedAt, ManagerID: &manager}.ApplyTo(sampleLink)
	cleared := UpdateLink{ManagerID: &unassigned}.ApplyTo(sampleLink)

	expected := sampleLink
	expected.Status = models.StatusRemoved
	expected.RemovedAt = removedAt
	expected.Manager = &models.Manager{ID: "m-2", IsActive: true}
	assert.Empty(t, cmp.Diff(expected, moved))
	assert.Nil(t, cleared.Manager)
	assert.Equal(t, "m-1", sampleLink.ManagerID())
}

func TestStatusChange(t *testing.T) {
	change := StatusChange(models.StatusCancelled)

	assert.Equal(t, models.StatusCancelled, *change.Status)
	assert.Nil(t, change.Priority)
}
