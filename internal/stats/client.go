// Package stats reads the dashboard statistics.
package stats

import (
	"context"
	"fmt"
	"net/url"

	"github.com/phil-crm/phil-console/internal/models"
)

type Gateway interface {
	Get(ctx context.Context, target string, out any) error
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

func periodQuery(period models.StatsPeriod) string {
	return url.Values{"period": []string{string(models.ParseStatsPeriod(string(period)))}}.Encode()
}

// Dashboard returns the totals for the period, unknown periods are treated as 30d.
func (c *Client) Dashboard(ctx context.Context, period models.StatsPeriod) (models.DashboardStats, error) {
	var dashboard models.DashboardStats
	err := c.gateway.Get(ctx, "/api/stats/dashboard/?"+periodQuery(period), &dashboard)
	if err != nil {
		return models.DashboardStats{}, err
	}
	if dashboard.Period == "" {
		dashboard.Period = models.ParseStatsPeriod(string(period))
	}
	if dashboard.Platforms == nil {
		dashboard.Platforms = []models.PlatformStats{}
	}
	for i := range dashboard.Platforms {
		if dashboard.Platforms[i].Platform == "" {
			dashboard.Platforms[i].Platform = models.PlatformOther
		}
	}
	if dashboard.ByPriority == nil {
		dashboard.ByPriority = []models.ByPriorityItem{}
	}
	if dashboard.ActivityChart == nil {
		dashboard.ActivityChart = []models.ActivityChartData{}
	}
	return dashboard, nil
}

func (c *Client) Platform(ctx context.Context, platform models.Platform, period models.StatsPeriod) (models.PlatformStatsResponse, error) {
	if !platform.Valid() {
		return models.PlatformStatsResponse{}, fmt.Errorf("unknown platform %q", platform)
	}
	target := "/api/stats/platform/" + url.PathEscape(string(platform)) + "/?" + periodQuery(period)
	var stats models.PlatformStatsResponse
	if err := c.gateway.Get(ctx, target, &stats); err != nil {
		return models.PlatformStatsResponse{}, err
	}
	if stats.Period == "" {
		stats.Period = models.ParseStatsPeriod(string(period))
	}
	if stats.Platform == "" {
		stats.Platform = platform
	}
	if stats.ByPriority == nil {
		stats.ByPriority = []models.ByPriorityItem{}
	}
	return stats, nil
}
