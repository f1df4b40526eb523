package models

type ByStatus struct {
	Active    int `json:"active"`
	Removed   int `json:"removed"`
	InWork    int `json:"in_work"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
}

type ByPriorityItem struct {
	Priority Priority `json:"priority"`
	Count    int      `json:"count"`
}

type PlatformStats struct {
	Platform Platform `json:"platform"`
	Total    int      `json:"total"`
	ByStatus
}

// ActivityChartData is one day of the dashboard chart, Date is YYYY-MM-DD.
type ActivityChartData struct {
	Date    string `json:"date"`
	Active  int    `json:"active"`
	Removed int    `json:"removed"`
}

type DashboardStats struct {
	Period StatsPeriod `json:"period"`
	Total  int         `json:"total"`
	ByStatus
	NewInPeriod     int                 `json:"new_in_period"`
	RemovedInPeriod int                 `json:"removed_in_period"`
	Statuses        ByStatus            `json:"by_status"`
	Platforms       []PlatformStats     `json:"platforms"`
	ByPriority      []ByPriorityItem    `json:"by_priority"`
	ActivityChart   []ActivityChartData `json:"activity_chart"`
}

type PlatformStatsResponse struct {
	Period   StatsPeriod `json:"period"`
	Platform Platform    `json:"platform"`
	Total    int         `json:"total"`
	ByStatus
	ByPriority []ByPriorityItem `json:"by_priority"`
}
