package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkDecodingAppliesDefaults(t *testing.T) {
	raw := `{"id": 42, "url": "https://example.com/p/1", "detected_at": "2024-03-01T10:00:00Z"}`

	var link Link
	err := json.Unmarshal([]byte(raw), &link)

	require.NoError(t, err)
	expected := Link{
		ID:         "42",
		URL:        "https://example.com/p/1",
		Platform:   PlatformOther,
		Type:       LinkTypePost,
		Status:     StatusPending,
		DetectedAt: "2024-03-01T10:00:00Z",
		Priority:   PriorityMedium,
	}
	assert.Empty(t, cmp.Diff(expected, link))
}

func TestLinkDecodingManagerReference(t *testing.T) {
	tests := []struct {
		name     string
		manager  string
		expected *Manager
	}{
		{"object with string id", `{"id": "m-1", "name": "Ann", "email": "ann@example.com", "is_active": true}`, &Manager{ID: "m-1", Name: "Ann", Email: "ann@example.com", IsActive: true}},
		{"null", `null`, nil},
		{"legacy string id", `"m-1"`, nil},
		{"numeric id", `{"id": 7, "name": "Bob"}`, nil},
		{"array", `[{"id": "m-1"}]`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"id": "l-1", "platform": "reddit", "manager": ` + tt.manager + `}`
			var link Link
			require.NoError(t, json.Unmarshal([]byte(raw), &link))
			assert.Equal(t, tt.expected, link.Manager)
			assert.Equal(t, PlatformReddit, link.Platform)
		})
	}
}

func TestLinkRoundTripKeepsValues(t *testing.T) {
	link := Link{
		ID:         "l-1",
		URL:        "https://example.com",
		Platform:   PlatformYoutube,
		Type:       LinkTypeVideo,
		Status:     StatusInWork,
		DetectedAt: "2024-03-01",
		Priority:   PriorityHigh,
		Manager:    &Manager{ID: "m-1", Name: "Ann"},
		Notes:      "escalated",
	}
	data, err := json.Marshal(link)
	require.NoError(t, err)

	var decoded Link
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Empty(t, cmp.Diff(link, decoded))
}

func TestLinkDetectedTime(t *testing.T) {
	withTime := Link{DetectedAt: "2024-03-01T10:00:00Z"}
	dateOnly := Link{DetectedAt: "2024-03-01"}
	broken := Link{DetectedAt: "yesterday"}

	ts, err := withTime.DetectedTime()
	require.NoError(t, err)
	assert.Equal(t, 10, ts.Hour())

	ts, err = dateOnly.DetectedTime()
	require.NoError(t, err)
	assert.Equal(t, 1, ts.Day())

	_, err = broken.DetectedTime()
	assert.Error(t, err)
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, PlatformAccount.Valid())
	assert.False(t, Platform("myspace").Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("done").Valid())
	assert.True(t, PriorityLow.Valid())
	assert.False(t, LinkType("tweet").Valid())
	assert.Equal(t, Period7Days, ParseStatsPeriod("7d"))
	assert.Equal(t, Period30Days, ParseStatsPeriod("1y"))
}
