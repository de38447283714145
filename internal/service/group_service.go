package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ethanx94/chatty/internal/auth"
	"github.com/ethanx94/chatty/internal/cache"
	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/repository"
	"github.com/ethanx94/chatty/internal/storage"
	"github.com/ethanx94/chatty/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrGroupNotFound        = errors.New("no group found")
	ErrStorageNotConfigured = errors.New("storage not configured")
	ErrInvalidGroupName     = errors.New("invalid group name")
	ErrInvalidMessageText   = errors.New("invalid message text")
)

const IconURLExpiry = time.Hour

// AssetStorage is the slice of object storage the group lifecycle needs.
// *storage.S3Storage satisfies it.
type AssetStorage interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) (storage.ObjectStat, error)
	DeleteObject(ctx context.Context, key string) error
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// IconUpload is a raw icon payload as received from the client.
type IconUpload struct {
	Name string
	Data []byte
}

type GroupService struct {
	groupRepo    repository.GroupRepositoryInterface
	userRepo     repository.UserRepositoryInterface
	messageRepo  repository.MessageRepositoryInterface
	lastReadRepo repository.LastReadRepositoryInterface
	assets       AssetStorage
	memberCache  *cache.MemberCache
}

func NewGroupService(
	groupRepo repository.GroupRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	lastReadRepo repository.LastReadRepositoryInterface,
	assets AssetStorage,
	memberCache *cache.MemberCache,
) *GroupService {
	return &GroupService{
		groupRepo:    groupRepo,
		userRepo:     userRepo,
		messageRepo:  messageRepo,
		lastReadRepo: lastReadRepo,
		assets:       assets,
		memberCache:  memberCache,
	}
}

// CreateGroup creates a group owned by the current user. friendIDs is
// filtered against the founder's actual friend list; ids that are not friends
// are dropped silently. The founder always joins as a member.
func (s *GroupService) CreateGroup(ctx *auth.Context, name string, friendIDs []uint, icon *IconUpload) (*models.Group, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if !validation.ValidateGroupName(name) {
		return nil, ErrInvalidGroupName
	}

	friends, err := s.userRepo.FindFriends(user.ID, friendIDs)
	if err != nil {
		return nil, err
	}

	group := &models.Group{Name: name}

	if icon != nil {
		key, err := s.uploadIcon(icon)
		if err != nil {
			return nil, err
		}
		group.IconKey = key
	}

	members := make([]*models.User, 0, len(friends)+1)
	for i := range friends {
		members = append(members, &friends[i])
	}
	members = append(members, user)
	group.Members = members

	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}

	return group, nil
}

// GetGroup resolves a group for the current user. Non-members (and missing
// groups) get ErrUnauthorized; the membership-filtered lookup doubles as the
// authorization check.
func (s *GroupService) GetGroup(ctx *auth.Context, groupID uint) (*models.Group, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.FindByIDForMember(groupID, user.ID)
	if err != nil {
		return nil, auth.ErrUnauthorized
	}
	return group, nil
}

// UpdateGroupInput holds independently composable sub-operations. Each is a
// no-op when its field is absent; the field changes are merged into one
// update call.
type UpdateGroupInput struct {
	Name              string
	LastReadMessageID *uint
	Icon              *IconUpload
}

func (s *GroupService) UpdateGroup(ctx *auth.Context, groupID uint, input UpdateGroupInput) (*models.Group, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.groupRepo.FindByIDForMember(groupID, user.ID)
	if err != nil {
		return nil, auth.ErrUnauthorized
	}

	updates := map[string]interface{}{}

	// Read-marker replacement is not atomic with the group field update.
	if input.LastReadMessageID != nil {
		if err := s.lastReadRepo.Replace(user.ID, groupID, *input.LastReadMessageID); err != nil {
			return nil, err
		}
		// The client just opened the group; clear its unread badge.
		if err := s.userRepo.ResetBadge(user.ID); err != nil {
			return nil, err
		}
	}

	if input.Icon != nil {
		key, err := s.uploadIcon(input.Icon)
		if err != nil {
			return nil, err
		}
		if group.IconKey != "" {
			// Best-effort; the new icon already replaced it logically.
			_ = s.assets.DeleteObject(context.Background(), group.IconKey)
		}
		updates["icon_key"] = key
	}

	if input.Name != "" {
		if !validation.ValidateGroupName(input.Name) {
			return nil, ErrInvalidGroupName
		}
		updates["name"] = input.Name
	}

	if err := s.groupRepo.Update(groupID, updates); err != nil {
		return nil, err
	}

	return s.groupRepo.FindByIDForMember(groupID, user.ID)
}

// DeleteGroup tears a group down: members, then messages, then the icon
// asset, then the row. The sequence is not transactional — a failure partway
// leaves the store in an intermediate state with no rollback.
func (s *GroupService) DeleteGroup(ctx *auth.Context, groupID uint) error {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return err
	}

	group, err := s.groupRepo.FindByIDForMember(groupID, user.ID)
	if err != nil {
		return auth.ErrUnauthorized
	}

	if err := s.groupRepo.RemoveAllMembers(groupID); err != nil {
		return err
	}
	if err := s.messageRepo.DeleteByGroup(groupID); err != nil {
		return err
	}
	if group.IconKey != "" {
		if s.assets == nil {
			return ErrStorageNotConfigured
		}
		if err := s.assets.DeleteObject(context.Background(), group.IconKey); err != nil {
			return err
		}
	}
	if err := s.groupRepo.Destroy(groupID); err != nil {
		return err
	}

	s.memberCache.Invalidate(groupID)
	return nil
}

// LeaveGroup removes the current user from membership. When the last member
// leaves, the group is destroyed as a side effect. Returns the group id
// regardless.
func (s *GroupService) LeaveGroup(ctx *auth.Context, groupID uint) (uint, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return 0, err
	}

	group, err := s.groupRepo.FindByIDForMember(groupID, user.ID)
	if err != nil {
		return 0, ErrGroupNotFound
	}

	if err := s.groupRepo.RemoveMember(groupID, user.ID); err != nil {
		return 0, err
	}
	if err := s.lastReadRepo.DeleteForMember(user.ID, groupID); err != nil {
		return 0, err
	}
	s.memberCache.Invalidate(groupID)

	remaining, err := s.groupRepo.CountMembers(groupID)
	if err != nil {
		return 0, err
	}
	if remaining == 0 {
		if err := s.messageRepo.DeleteByGroup(groupID); err != nil {
			return 0, err
		}
		if group.IconKey != "" && s.assets != nil {
			_ = s.assets.DeleteObject(context.Background(), group.IconKey)
		}
		if err := s.groupRepo.Destroy(groupID); err != nil {
			return 0, err
		}
	}

	return group.ID, nil
}

func (s *GroupService) GetMembers(ctx *auth.Context, groupID uint) ([]models.User, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.groupRepo.FindByIDForMember(groupID, user.ID); err != nil {
		return nil, auth.ErrUnauthorized
	}
	return s.groupRepo.GetMembers(groupID)
}

func (s *GroupService) GetLastRead(ctx *auth.Context, groupID uint) (*models.LastRead, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.groupRepo.FindByIDForMember(groupID, user.ID); err != nil {
		return nil, auth.ErrUnauthorized
	}
	return s.lastReadRepo.Get(user.ID, groupID)
}

// IconURL resolves a group's icon to a time-limited signed URL, or "" when
// the group has no icon.
func (s *GroupService) IconURL(group *models.Group) (string, error) {
	if group.IconKey == "" {
		return "", nil
	}
	if s.assets == nil {
		return "", ErrStorageNotConfigured
	}
	return s.assets.PresignedGetURL(context.Background(), group.IconKey, IconURLExpiry)
}

func (s *GroupService) uploadIcon(icon *IconUpload) (string, error) {
	if s.assets == nil {
		return "", ErrStorageNotConfigured
	}
	jpegBytes, contentType, size, err := storage.ProcessIconImage(bytes.NewReader(icon.Data), storage.DefaultIconOptions())
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("icons/%s.jpg", uuid.NewString())
	if _, err := s.assets.PutObject(context.Background(), key, bytes.NewReader(jpegBytes), size, contentType); err != nil {
		return "", err
	}
	return key, nil
}
