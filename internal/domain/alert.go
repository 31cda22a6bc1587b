package domain

// Alert is a notification addressed to the driver.
type Alert struct {
	ID             int64          `json:"id"`
	AlertType      string         `json:"alert_type"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Priority       string         `json:"priority"`
	ActionRequired bool           `json:"action_required"`
	ActionType     *string        `json:"action_type,omitempty"`
	ActionURL      *string        `json:"action_url,omitempty"`
	IsRead         bool           `json:"is_read"`
	Status         string         `json:"status"`
	Metadata       map[string]any `json:"alert_metadata,omitempty"`
	CreatedAt      Time           `json:"created_at"`
}
