package service

import (
	"github.com/ethanx94/chatty/internal/auth"
	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/repository"
)

// UserService exposes user fields behind an identity-match gate: private
// data (email, device token, friends, groups, own messages) is only visible
// to the user it belongs to. This is an id equality check, not a role check.
type UserService struct {
	userRepo    repository.UserRepositoryInterface
	groupRepo   repository.GroupRepositoryInterface
	messageRepo repository.MessageRepositoryInterface
}

func NewUserService(
	userRepo repository.UserRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
) *UserService {
	return &UserService{userRepo: userRepo, groupRepo: groupRepo, messageRepo: messageRepo}
}

func (s *UserService) requireSelf(ctx *auth.Context, targetID uint) (*models.User, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if user.ID != targetID {
		return nil, auth.ErrUnauthorized
	}
	return user, nil
}

func (s *UserService) Email(ctx *auth.Context, targetID uint) (string, error) {
	user, err := s.requireSelf(ctx, targetID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

func (s *UserService) RegistrationID(ctx *auth.Context, targetID uint) (*string, error) {
	user, err := s.requireSelf(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return user.RegistrationID, nil
}

func (s *UserService) Friends(ctx *auth.Context, targetID uint) ([]models.User, error) {
	user, err := s.requireSelf(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetFriends(user.ID)
}

func (s *UserService) Groups(ctx *auth.Context, targetID uint) ([]models.Group, error) {
	user, err := s.requireSelf(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetGroups(user.ID)
}

func (s *UserService) Messages(ctx *auth.Context, targetID uint) ([]models.Message, error) {
	user, err := s.requireSelf(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return s.messageRepo.FindByUser(user.ID)
}

// RegisterDevice stores (or clears, with nil) the current user's push token.
func (s *UserService) RegisterDevice(ctx *auth.Context, targetID uint, token *string) error {
	user, err := s.requireSelf(ctx, targetID)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateRegistrationID(user.ID, token)
}

// Befriend records a symmetric friendship between the current user and
// another user.
func (s *UserService) Befriend(ctx *auth.Context, friendID uint) error {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(friendID); err != nil {
		return err
	}
	return s.userRepo.AddFriend(user.ID, friendID)
}

// MessageAuthor resolves a message's author to the minimized projection,
// through the request's memoizing loader when one is attached.
func (s *UserService) MessageAuthor(ctx *auth.Context, message *models.Message) (models.UserRef, error) {
	if l := ctx.Loaders(); l != nil {
		user, err := l.User(message.UserID)
		if err != nil {
			return models.UserRef{}, err
		}
		return user.ToRef(), nil
	}
	user, err := s.userRepo.FindByID(message.UserID)
	if err != nil {
		return models.UserRef{}, err
	}
	return user.ToRef(), nil
}

// MessageGroup resolves a message's target group to the minimized projection.
func (s *UserService) MessageGroup(ctx *auth.Context, message *models.Message) (models.GroupRef, error) {
	if l := ctx.Loaders(); l != nil {
		group, err := l.Group(message.GroupID)
		if err != nil {
			return models.GroupRef{}, err
		}
		return group.ToRef(), nil
	}
	group, err := s.groupRepo.FindByID(message.GroupID)
	if err != nil {
		return models.GroupRef{}, err
	}
	return group.ToRef(), nil
}
