package models

import "slices"

type Platform string

const (
	PlatformFacebook Platform = "facebook"
	PlatformTwitter  Platform = "twitter"
	PlatformYoutube  Platform = "youtube"
	PlatformReddit   Platform = "reddit"
	PlatformAccount  Platform = "account"
	PlatformOther    Platform = "other"
)

var Platforms = []Platform{PlatformFacebook, PlatformTwitter, PlatformYoutube, PlatformReddit, PlatformAccount, PlatformOther}

func (p Platform) Valid() bool {
	return slices.Contains(Platforms, p)
}

type LinkType string

const (
	LinkTypePost    LinkType = "post"
	LinkTypeComment LinkType = "comment"
	LinkTypeVideo   LinkType = "video"
	LinkTypeArticle LinkType = "article"
	LinkTypeAccount LinkType = "account"
)

var LinkTypes = []LinkType{LinkTypePost, LinkTypeComment, LinkTypeVideo, LinkTypeArticle, LinkTypeAccount}

func (t LinkType) Valid() bool {
	return slices.Contains(LinkTypes, t)
}

type Status string

const (
	StatusActive    Status = "active"
	StatusRemoved   Status = "removed"
	StatusInWork    Status = "in_work"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{StatusActive, StatusRemoved, StatusInWork, StatusPending, StatusCancelled}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

type ActivityAction string

const (
	ActionCreated       ActivityAction = "created"
	ActionUpdated       ActivityAction = "updated"
	ActionDeleted       ActivityAction = "deleted"
	ActionStatusChanged ActivityAction = "status_changed"
	ActionAssigned      ActivityAction = "assigned"
)

var ActivityActions = []ActivityAction{ActionCreated, ActionUpdated, ActionDeleted, ActionStatusChanged, ActionAssigned}

func (a ActivityAction) Valid() bool {
	return slices.Contains(ActivityActions, a)
}

type EntityType string

const (
	EntityLink    EntityType = "link"
	EntityManager EntityType = "manager"
)

func (e EntityType) Valid() bool {
	return e == EntityLink || e == EntityManager
}

type StatsPeriod string

const (
	Period1Day   StatsPeriod = "1d"
	Period7Days  StatsPeriod = "7d"
	Period30Days StatsPeriod = "30d"
)

// ParseStatsPeriod falls back to 30d for anything it does not recognise.
func ParseStatsPeriod(value string) StatsPeriod {
	switch StatsPeriod(value) {
	case Period1Day, Period7Days, Period30Days:
		return StatsPeriod(value)
	default:
		return Period30Days
	}
}
