package handlers

import (
	"io"
	"log"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/ethanx94/chatty/internal/httpx"
	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/service"
	"github.com/gofiber/fiber/v2"
)

// GroupEventPublisher pushes group-added events to live subscribers.
// The websocket hub implements it.
type GroupEventPublisher interface {
	PublishGroupAdded(userIDs []uint, group *models.Group)
}

type GroupHandler struct {
	groupService *service.GroupService
	publisher    GroupEventPublisher
}

func NewGroupHandler(groupService *service.GroupService, publisher GroupEventPublisher) *GroupHandler {
	return &GroupHandler{groupService: groupService, publisher: publisher}
}

// groupResponse is the client-facing shape. Members are minimized and the
// icon key is replaced by a signed URL.
type groupResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	IconURL   string           `json:"icon_url,omitempty"`
	Members   []models.UserRef `json:"members,omitempty"`
}

func (h *GroupHandler) toResponse(group *models.Group) groupResponse {
	resp := groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		CreatedAt: group.CreatedAt,
		UpdatedAt: group.UpdatedAt,
	}
	if url, err := h.groupService.IconURL(group); err == nil {
		resp.IconURL = url
	} else {
		log.Printf("group %d: sign icon url: %v", group.ID, err)
	}
	for _, m := range group.Members {
		resp.Members = append(resp.Members, m.ToRef())
	}
	return resp
}

func readIcon(file *multipart.FileHeader) (*service.IconUpload, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.IconUpload{Name: file.Filename, Data: data}, nil
}

// CreateGroup accepts multipart form data: name, friend_ids (comma separated)
// and an optional icon file.
func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	name := c.FormValue("name")
	friendIDs := parseIDList(c.FormValue("friend_ids"))

	var icon *service.IconUpload
	if file, err := c.FormFile("icon"); err == nil {
		icon, err = readIcon(file)
		if err != nil {
			return httpx.BadRequest(c, "invalid_icon", "Could not read icon upload")
		}
	}

	group, err := h.groupService.CreateGroup(authContext(c), name, friendIDs, icon)
	if err != nil {
		return serviceError(c, err)
	}

	if h.publisher != nil {
		ids := make([]uint, 0, len(group.Members))
		for _, m := range group.Members {
			ids = append(ids, m.ID)
		}
		h.publisher.PublishGroupAdded(ids, group)
	}

	return c.Status(fiber.StatusCreated).JSON(h.toResponse(group))
}

func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}
	group, err := h.groupService.GetGroup(authContext(c), groupID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(h.toResponse(group))
}

// UpdateGroup accepts multipart form data; each field is optional and
// independent: name, last_read_message_id, icon.
func (h *GroupHandler) UpdateGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}

	input := service.UpdateGroupInput{Name: c.FormValue("name")}

	if raw := c.FormValue("last_read_message_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return httpx.BadRequest(c, "invalid_last_read", "Invalid last read message id")
		}
		id := uint(v)
		input.LastReadMessageID = &id
	}

	if file, err := c.FormFile("icon"); err == nil {
		input.Icon, err = readIcon(file)
		if err != nil {
			return httpx.BadRequest(c, "invalid_icon", "Could not read icon upload")
		}
	}

	group, err := h.groupService.UpdateGroup(authContext(c), groupID, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(h.toResponse(group))
}

func (h *GroupHandler) DeleteGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}
	if err := h.groupService.DeleteGroup(authContext(c), groupID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}
	id, err := h.groupService.LeaveGroup(authContext(c), groupID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func (h *GroupHandler) GetMembers(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}
	members, err := h.groupService.GetMembers(authContext(c), groupID)
	if err != nil {
		return serviceError(c, err)
	}
	refs := make([]models.UserRef, 0, len(members))
	for i := range members {
		refs = append(refs, members[i].ToRef())
	}
	return c.JSON(refs)
}

func (h *GroupHandler) GetLastRead(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid group id")
	}
	lastRead, err := h.groupService.GetLastRead(authContext(c), groupID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(lastRead)
}
