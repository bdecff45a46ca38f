package notify

import "time"

// Type tags the feature a notification originated from.
type Type string

const (
	TypeWeather  Type = "weather"
	TypeScheme   Type = "scheme"
	TypeMarket   Type = "market"
	TypeForum    Type = "forum"
	TypeAI       Type = "ai"
	TypeWatering Type = "watering"
	TypeOrder    Type = "order"
)

// Priority orders notifications in the inbox UI.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Notification is one inbox entry. The list is capped at 50 per user,
// newest first, with the oldest entries evicted on overflow.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Priority  Priority  `json:"priority"`
	Icon      string    `json:"icon"`
	ActionURL string    `json:"actionUrl,omitempty"`
}

// InboxCap bounds the persisted notification list per user.
const InboxCap = 50
