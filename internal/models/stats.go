package models

// TenantStats accumulates service history across the tenant's lifetime.
// Only the served transition updates it, and each entry contributes at
// most once.
type TenantStats struct {
	TotalServed      int `json:"total_served"`
	TotalWaitMinutes int `json:"total_wait_minutes"`
}

// QueueStats is the read-side summary returned next to queue listings.
// TotalServedToday keeps the historical field name: the value is the
// all-time served counter, it is never reset at the day boundary.
type QueueStats struct {
	Waiting            int `json:"waiting"`
	AverageWaitMinutes int `json:"averageWaitMinutes"`
	TotalServedToday   int `json:"totalServedToday"`
}
