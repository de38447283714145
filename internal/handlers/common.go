package handlers

import (
	"errors"
	"strconv"

	"github.com/ethanx94/chatty/internal/auth"
	"github.com/ethanx94/chatty/internal/httpx"
	"github.com/ethanx94/chatty/internal/pagination"
	"github.com/ethanx94/chatty/internal/service"
	"github.com/ethanx94/chatty/internal/storage"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// authContext builds the request's auth context from what the middleware
// resolved. An unauthenticated request yields a context that fails closed.
func authContext(c *fiber.Ctx) *auth.Context {
	return auth.NewContext(httpx.LocalUser(c))
}

func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	case errors.Is(err, service.ErrGroupNotFound):
		return httpx.NotFound(c, "group_not_found", "No group found")
	case errors.Is(err, pagination.ErrInvalidCursor):
		return httpx.BadRequest(c, "invalid_cursor", "Invalid cursor")
	case errors.Is(err, service.ErrInvalidGroupName), errors.Is(err, service.ErrInvalidMessageText):
		return httpx.BadRequest(c, "invalid_input", err.Error())
	case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrInvalidImage), errors.Is(err, storage.ErrUnsupported):
		return httpx.BadRequest(c, "invalid_icon", err.Error())
	case errors.Is(err, service.ErrStorageNotConfigured):
		return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_not_configured", "Icon uploads are not available")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httpx.NotFound(c, "not_found", "Not found")
	default:
		return httpx.Internal(c, "internal_error")
	}
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func parseIDList(s string) []uint {
	if s == "" {
		return nil
	}
	var ids []uint
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if v, err := strconv.ParseUint(s[start:i], 10, 32); err == nil {
				ids = append(ids, uint(v))
			}
			start = i + 1
		}
	}
	return ids
}
