package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/phil-crm/phil-console/internal/config"
	"github.com/phil-crm/phil-console/internal/db"
	"github.com/phil-crm/phil-console/internal/gateway"
	"github.com/phil-crm/phil-console/internal/models"
	"github.com/phil-crm/phil-console/internal/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedBackend serves 50 records in pages of 25. The next link carries a query the client could
// not guess, so following it verbatim is the only way to reach the second page.
type pagedBackend struct {
	url  string
	lock sync.Mutex
	uris []string
}

func (b *pagedBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	b.uris = append(b.uris, r.RequestURI)
	b.lock.Unlock()
	page := map[string]any{"count": 50, "previous": nil}
	start := 0
	if r.URL.Query().Get("cursor") == "cD0yNQ" {
		start = 25
		page["next"] = nil
		page["previous"] = b.url + "/api/activity/?action=status_changed"
	} else {
		page["next"] = b.url + "/api/activity/?action=status_changed&cursor=cD0yNQ"
	}
	results := []map[string]any{}
	for i := start; i < start+25; i++ {
		results = append(results, map[string]any{
			"id":          fmt.Sprintf("a-%d", i),
			"user":        1,
			"action":      "status_changed",
			"entity_type": "link",
			"entity_id":   "l-1",
			"old_value":   map[string]any{"status": "pending"},
			"new_value":   map[string]any{"status": "removed"},
			"timestamp":   "2024-03-01T10:00:00Z",
		})
	}
	page["results"] = results
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

func setupClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	store, err := sessions.NewSessionStore(sessions.WithSessionRepository(db.NewMemoryAdapter()))
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "access", "refresh", time.Now().Add(time.Hour)))
	baseURL, _ := url.Parse(server.URL)
	gw, err := gateway.NewGateway(gateway.WithConfig(config.APIConfig{BaseURL: baseURL}), gateway.WithSessionStore(store))
	require.NoError(t, err)
	client, err := NewClient(gw)
	require.NoError(t, err)
	return client, server
}

func TestPagerFollowsNextVerbatim(t *testing.T) {
	backend := &pagedBackend{}
	client, server := setupClient(t, backend)
	backend.url = server.URL
	ctx := context.Background()
	pager := client.NewPager(Filter{Action: models.ActionStatusChanged})

	require.NoError(t, pager.Load(ctx))
	assert.Len(t, pager.Items(), 25)
	assert.True(t, pager.HasMore())

	require.NoError(t, pager.LoadMore(ctx))

	items := pager.Items()
	require.Len(t, items, 50)
	assert.Equal(t, "a-0", items[0].ID)
	assert.Equal(t, "a-49", items[49].ID)
	assert.Equal(t, 50, pager.Count())
	assert.False(t, pager.HasMore())
	assert.Equal(t, []string{
		"/api/activity/?action=status_changed",
		"/api/activity/?action=status_changed&cursor=cD0yNQ",
	}, backend.uris)

	require.NoError(t, pager.LoadMore(ctx))
	assert.Len(t, backend.uris, 2)
}

func TestPagerReloadStartsOver(t *testing.T) {
	backend := &pagedBackend{}
	client, server := setupClient(t, backend)
	backend.url = server.URL
	ctx := context.Background()
	pager := client.NewPager(Filter{})

	require.NoError(t, pager.Load(ctx))
	require.NoError(t, pager.LoadMore(ctx))
	require.NoError(t, pager.Load(ctx))

	assert.Len(t, pager.Items(), 25)
	assert.True(t, pager.HasMore())
}

func TestDecodedRecords(t *testing.T) {
	backend := &pagedBackend{}
	client, server := setupClient(t, backend)
	backend.url = server.URL

	page, err := client.List(context.Background(), Filter{})

	require.NoError(t, err)
	record := page.Results[0]
	require.NotNil(t, record.User)
	assert.Equal(t, int64(1), *record.User)
	assert.Equal(t, models.ActionStatusChanged, record.Action)
	assert.Equal(t, "removed", record.NewValue["status"])
	assert.Empty(t, page.Previous)
}

func TestListQuery(t *testing.T) {
	var uri string
	client, _ := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uri = r.RequestURI
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 0, "next": null, "previous": null, "results": []}`))
	}))
	ctx := context.Background()

	_, err := client.List(ctx, Filter{User: 3, EntityType: models.EntityManager, DateFrom: "2024-01-01", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, "/api/activity/?date_from=2024-01-01&entity_type=manager&page=2&user=3", uri)

	_, err = client.ForLink(ctx, "l-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "/api/activity/link/l-1/", uri)

	_, err = client.ForLink(ctx, "l-1", 3)
	require.NoError(t, err)
	assert.Equal(t, "/api/activity/link/l-1/?page=3", uri)

	_, err = client.Next(ctx, "")
	assert.Error(t, err)
}
