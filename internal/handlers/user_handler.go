package handlers

import (
	"github.com/ethanx94/chatty/internal/auth"
	"github.com/ethanx94/chatty/internal/httpx"
	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/repository"
	"github.com/ethanx94/chatty/internal/service"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *service.UserService
	userRepo    repository.UserRepositoryInterface
	groupRepo   repository.GroupRepositoryInterface
}

func NewUserHandler(
	userService *service.UserService,
	userRepo repository.UserRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
) *UserHandler {
	return &UserHandler{userService: userService, userRepo: userRepo, groupRepo: groupRepo}
}

// loaderContext attaches per-request memoizing loaders for the resolvers that
// batch author/group lookups.
func (h *UserHandler) loaderContext(c *fiber.Ctx) *auth.Context {
	return authContext(c).WithLoaders(auth.NewLoaders(h.userRepo.FindByID, h.groupRepo.FindByID))
}

// GetUser returns the full profile for the requester themselves and the
// minimized projection for anyone else.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	targetID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}

	current := httpx.LocalUser(c)
	if current != nil && current.ID == targetID {
		return c.JSON(current.ToResponse())
	}

	user, err := h.userRepo.FindByID(targetID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user.ToRef())
}

func (h *UserHandler) GetFriends(c *fiber.Ctx) error {
	targetID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}
	friends, err := h.userService.Friends(authContext(c), targetID)
	if err != nil {
		return serviceError(c, err)
	}
	refs := make([]models.UserRef, 0, len(friends))
	for i := range friends {
		refs = append(refs, friends[i].ToRef())
	}
	return c.JSON(refs)
}

func (h *UserHandler) GetGroups(c *fiber.Ctx) error {
	targetID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}
	groups, err := h.userService.Groups(authContext(c), targetID)
	if err != nil {
		return serviceError(c, err)
	}
	refs := make([]models.GroupRef, 0, len(groups))
	for i := range groups {
		refs = append(refs, groups[i].ToRef())
	}
	return c.JSON(refs)
}

// GetMessages lists the target user's own messages with author and group
// resolved through the request's loaders.
func (h *UserHandler) GetMessages(c *fiber.Ctx) error {
	targetID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}

	ctx := h.loaderContext(c)
	messages, err := h.userService.Messages(ctx, targetID)
	if err != nil {
		return serviceError(c, err)
	}

	views := make([]fiber.Map, 0, len(messages))
	for i := range messages {
		from, err := h.userService.MessageAuthor(ctx, &messages[i])
		if err != nil {
			return serviceError(c, err)
		}
		to, err := h.userService.MessageGroup(ctx, &messages[i])
		if err != nil {
			return serviceError(c, err)
		}
		views = append(views, fiber.Map{
			"id":         messages[i].ID,
			"text":       messages[i].Text,
			"from":       from,
			"to":         to,
			"created_at": messages[i].CreatedAt,
		})
	}
	return c.JSON(views)
}

type registerDeviceRequest struct {
	RegistrationID *string `json:"registration_id"`
}

// RegisterDevice stores or clears (null) the user's push token.
func (h *UserHandler) RegisterDevice(c *fiber.Ctx) error {
	targetID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}
	var req registerDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := h.userService.RegisterDevice(authContext(c), targetID, req.RegistrationID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type befriendRequest struct {
	FriendID uint `json:"friend_id"`
}

func (h *UserHandler) Befriend(c *fiber.Ctx) error {
	var req befriendRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := h.userService.Befriend(authContext(c), req.FriendID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
