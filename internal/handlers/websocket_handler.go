package handlers

import (
	"log"

	"github.com/ethanx94/chatty/internal/auth"
	"github.com/ethanx94/chatty/internal/handlers/ws"
	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type WebsocketHandler struct {
	hub           *ws.Hub
	subscriptions *service.SubscriptionService
}

func NewWebsocketHandler(hub *ws.Hub, subscriptions *service.SubscriptionService) *WebsocketHandler {
	return &WebsocketHandler{hub: hub, subscriptions: subscriptions}
}

// Upgrade gates the HTTP→websocket upgrade. It runs after the auth
// middleware, so an unauthenticated request never reaches the hub.
func (h *WebsocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// Serve runs one connection: a read loop of subscribe frames, each authorized
// before the hub registers it. An unauthorized frame closes the connection.
func (h *WebsocketHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		user, ok := conn.Locals("currentUser").(*models.User)
		if !ok || user == nil {
			conn.Close()
			return
		}
		ctx := auth.NewContext(user)

		client := h.hub.Register(user.ID, conn)
		defer func() {
			h.hub.Unregister(client)
			conn.Close()
		}()

		for {
			var frame ws.SubscribeFrame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}

			switch frame.Action {
			case ws.ActionSubscribeMessages:
				allowed, err := h.subscriptions.AuthorizeMessageAdded(ctx, frame.GroupIDs)
				if err != nil {
					log.Printf("ws: user %d message subscription rejected: %v", user.ID, err)
					return
				}
				h.hub.SubscribeMessages(client, allowed)
			case ws.ActionSubscribeGroups:
				if err := h.subscriptions.AuthorizeGroupAdded(ctx, frame.UserID); err != nil {
					log.Printf("ws: user %d group subscription rejected: %v", user.ID, err)
					return
				}
				h.hub.SubscribeGroups(client)
			default:
				log.Printf("ws: user %d sent unknown action %q", user.ID, frame.Action)
			}
		}
	})
}
