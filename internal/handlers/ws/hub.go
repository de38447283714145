package ws

import (
	"log"
	"sync"

	"github.com/ethanx94/chatty/internal/models"
	"github.com/gofiber/websocket/v2"
)

// Client is one live websocket connection with its subscription state.
type Client struct {
	conn   *websocket.Conn
	userID uint

	mu          sync.Mutex // serializes writes to conn
	groups      map[uint]bool
	wantsGroups bool
}

func (c *Client) send(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(event); err != nil {
		log.Printf("ws: write to user %d: %v", c.userID, err)
	}
}

// Hub tracks live connections and routes subscription events to them.
// Delivery is best-effort: a failed write is logged and dropped.
type Hub struct {
	mu      sync.RWMutex
	byUser  map[uint]map[*Client]struct{}
	byGroup map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byUser:  make(map[uint]map[*Client]struct{}),
		byGroup: make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(userID uint, conn *websocket.Conn) *Client {
	client := &Client{
		conn:   conn,
		userID: userID,
		groups: make(map[uint]bool),
	}
	h.mu.Lock()
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[*Client]struct{})
	}
	h.byUser[userID][client] = struct{}{}
	h.mu.Unlock()
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.byUser[client.userID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.byUser, client.userID)
		}
	}
	for groupID := range client.groups {
		if set, ok := h.byGroup[groupID]; ok {
			delete(set, client)
			if len(set) == 0 {
				delete(h.byGroup, groupID)
			}
		}
	}
}

// SubscribeMessages attaches the client to the given (already authorized)
// group ids, replacing any previous message subscription.
func (h *Hub) SubscribeMessages(client *Client, groupIDs []uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for groupID := range client.groups {
		if set, ok := h.byGroup[groupID]; ok {
			delete(set, client)
			if len(set) == 0 {
				delete(h.byGroup, groupID)
			}
		}
	}
	client.groups = make(map[uint]bool, len(groupIDs))
	for _, groupID := range groupIDs {
		client.groups[groupID] = true
		if h.byGroup[groupID] == nil {
			h.byGroup[groupID] = make(map[*Client]struct{})
		}
		h.byGroup[groupID][client] = struct{}{}
	}
}

// SubscribeGroups marks the client as wanting its own group-added events.
func (h *Hub) SubscribeGroups(client *Client) {
	h.mu.Lock()
	client.wantsGroups = true
	h.mu.Unlock()
}

// PublishMessage fans a new message out to the group's live subscribers.
func (h *Hub) PublishMessage(groupID uint, message *models.Message) {
	resp := message.ToResponse()
	event := Event{Type: EventMessageAdded, Message: &resp}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.byGroup[groupID]))
	for client := range h.byGroup[groupID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		go client.send(event)
	}
}

// PublishGroupAdded tells each listed user that they were put in a new group.
func (h *Hub) PublishGroupAdded(userIDs []uint, group *models.Group) {
	ref := group.ToRef()
	event := Event{Type: EventGroupAdded, Group: &ref}

	h.mu.RLock()
	var clients []*Client
	for _, userID := range userIDs {
		for client := range h.byUser[userID] {
			if client.wantsGroups {
				clients = append(clients, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range clients {
		go client.send(event)
	}
}
