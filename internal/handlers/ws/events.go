package ws

import (
	"github.com/ethanx94/chatty/internal/models"
)

const (
	EventMessageAdded = "MESSAGE_ADDED"
	EventGroupAdded   = "GROUP_ADDED"
)

// Event is one frame pushed to a subscriber.
type Event struct {
	Type    string                  `json:"type"`
	Group   *models.GroupRef        `json:"group,omitempty"`
	Message *models.MessageResponse `json:"message,omitempty"`
}

// SubscribeFrame is a client request to attach to an event stream.
type SubscribeFrame struct {
	Action   string `json:"action"`
	UserID   uint   `json:"user_id,omitempty"`
	GroupIDs []uint `json:"group_ids,omitempty"`
}

const (
	ActionSubscribeMessages = "subscribe_messages"
	ActionSubscribeGroups   = "subscribe_groups"
)
