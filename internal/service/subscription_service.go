package service

import (
	"github.com/ethanx94/chatty/internal/auth"
	"github.com/ethanx94/chatty/internal/repository"
)

// SubscriptionService authorizes live-event subscriptions before the hub
// registers them.
type SubscriptionService struct {
	userRepo repository.UserRepositoryInterface
}

func NewSubscriptionService(userRepo repository.UserRepositoryInterface) *SubscriptionService {
	return &SubscriptionService{userRepo: userRepo}
}

// AuthorizeGroupAdded allows a user to subscribe only to their own
// group-added events.
func (s *SubscriptionService) AuthorizeGroupAdded(ctx *auth.Context, subscriberID uint) error {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return err
	}
	if user.ID != subscriberID {
		return auth.ErrUnauthorized
	}
	return nil
}

// AuthorizeMessageAdded checks the claimed group ids against the user's
// actual memberships. If the intersection is smaller than the claimed set,
// the subscription is rejected wholesale.
func (s *SubscriptionService) AuthorizeMessageAdded(ctx *auth.Context, groupIDs []uint) ([]uint, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	claimed := make([]uint, 0, len(groupIDs))
	seen := make(map[uint]bool, len(groupIDs))
	for _, id := range groupIDs {
		if !seen[id] {
			seen[id] = true
			claimed = append(claimed, id)
		}
	}

	groups, err := s.userRepo.GetGroupsByIDs(user.ID, claimed)
	if err != nil {
		return nil, err
	}
	if len(groups) < len(claimed) {
		return nil, auth.ErrUnauthorized
	}

	allowed := make([]uint, 0, len(groups))
	for _, g := range groups {
		allowed = append(allowed, g.ID)
	}
	return allowed, nil
}
