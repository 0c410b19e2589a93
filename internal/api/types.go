package api

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status              string `json:"status"`
	NotificationCount   int    `json:"notification_count"`
	DeliveredCount      int    `json:"delivered_count"`
	DeliveryFailedCount int    `json:"delivery_failed_count"`
	ErrorCount          int    `json:"error_count"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
