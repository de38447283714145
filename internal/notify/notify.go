package notify

import (
	"context"
)

const (
	PriorityHigh = "high"

	// Data payload discriminator carried with a new-message push.
	EventMessageAdded = "MESSAGE_ADDED"
	EventGroupAdded   = "GROUP_ADDED"
)

// Notification is the user-visible part of a push.
type Notification struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Sound       string `json:"sound,omitempty"`
	Badge       int    `json:"badge,omitempty"`
	ClickAction string `json:"click_action,omitempty"`
}

// Push is one delivery to one device token. Priority "high" asks the
// platform to wake the device.
type Push struct {
	To           string                 `json:"to"`
	Notification Notification           `json:"notification"`
	Data         map[string]interface{} `json:"data,omitempty"`
	Priority     string                 `json:"priority,omitempty"`
}

// Sender delivers pushes. Fire-and-forget from the caller's perspective:
// the fan-out logs and drops any error.
type Sender interface {
	Send(ctx context.Context, push Push) error
}
