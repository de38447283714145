package handlers

import (
	"github.com/ethanx94/chatty/internal/httpx"
	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/pagination"
	"github.com/ethanx94/chatty/internal/service"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type MessageHandler struct {
	messageService *service.MessageService
	userService    *service.UserService
}

func NewMessageHandler(messageService *service.MessageService, userService *service.UserService) *MessageHandler {
	return &MessageHandler{messageService: messageService, userService: userService}
}

type messageEdge struct {
	Cursor string                 `json:"cursor"`
	Node   models.MessageResponse `json:"node"`
}

type messageConnection struct {
	Edges    []messageEdge       `json:"edges"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// GetGroupMessages serves one cursor page of a group's feed, newest first.
// Query parameters: first, last, before, after. The page size is clamped at
// the transport edge; the paginator itself takes whatever it is given.
func (h *MessageHandler) GetGroupMessages(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}

	args := pagination.Args{
		First:  c.QueryInt("first"),
		Last:   c.QueryInt("last"),
		Before: c.Query("before"),
		After:  c.Query("after"),
	}
	if args.First <= 0 && args.Last <= 0 {
		args.First = defaultPageSize
	}
	if args.First > maxPageSize {
		args.First = maxPageSize
	}
	if args.Last > maxPageSize {
		args.Last = maxPageSize
	}

	conn, err := h.messageService.PageMessages(authContext(c), groupID, args)
	if err != nil {
		return serviceError(c, err)
	}

	resp := messageConnection{
		Edges:    make([]messageEdge, 0, len(conn.Edges)),
		PageInfo: conn.PageInfo,
	}
	for _, edge := range conn.Edges {
		resp.Edges = append(resp.Edges, messageEdge{
			Cursor: edge.Cursor,
			Node:   edge.Node.ToResponse(),
		})
	}
	return c.JSON(resp)
}

type createMessageRequest struct {
	Text string `json:"text"`
}

func (h *MessageHandler) CreateMessage(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}

	var req createMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	ctx := authContext(c)
	message, err := h.messageService.CreateMessage(ctx, groupID, req.Text)
	if err != nil {
		return serviceError(c, err)
	}

	// The freshly created row has no author preloaded; the author is the
	// current user.
	resp := message.ToResponse()
	resp.From = httpx.LocalUser(c).ToRef()
	return c.Status(fiber.StatusCreated).JSON(resp)
}
