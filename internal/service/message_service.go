package service

import (
	"context"
	"log"
	"sync"

	"github.com/ethanx94/chatty/internal/auth"
	"github.com/ethanx94/chatty/internal/cache"
	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/notify"
	"github.com/ethanx94/chatty/internal/pagination"
	"github.com/ethanx94/chatty/internal/repository"
	"github.com/ethanx94/chatty/internal/validation"
)

// MessagePublisher pushes a freshly created message to live subscribers.
// The websocket hub implements it.
type MessagePublisher interface {
	PublishMessage(groupID uint, message *models.Message)
}

type MessageService struct {
	messageRepo repository.MessageRepositoryInterface
	groupRepo   repository.GroupRepositoryInterface
	userRepo    repository.UserRepositoryInterface
	paginator   *pagination.Paginator
	notifier    notify.Sender
	memberCache *cache.MemberCache
	publisher   MessagePublisher
}

func NewMessageService(
	messageRepo repository.MessageRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	notifier notify.Sender,
	memberCache *cache.MemberCache,
	publisher MessagePublisher,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		paginator:   pagination.NewPaginator(messageRepo),
		notifier:    notifier,
		memberCache: memberCache,
		publisher:   publisher,
	}
}

// CreateMessage creates a message in a group the current user belongs to.
// The notification fan-out runs detached; the returned message does not wait
// on it.
func (s *MessageService) CreateMessage(ctx *auth.Context, groupID uint, text string) (*models.Message, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.groupRepo.FindByIDForMember(groupID, user.ID)
	if err != nil {
		return nil, auth.ErrUnauthorized
	}

	if !validation.ValidateMessageText(text) {
		return nil, ErrInvalidMessageText
	}

	message := &models.Message{
		Text:    text,
		UserID:  user.ID,
		GroupID: groupID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	go s.fanOut(message, user, group)

	return message, nil
}

// PageMessages resolves one cursor page of a group's feed for the current
// user.
func (s *MessageService) PageMessages(ctx *auth.Context, groupID uint, args pagination.Args) (*pagination.Connection, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.groupRepo.FindByIDForMember(groupID, user.ID); err != nil {
		return nil, auth.ErrUnauthorized
	}
	return s.paginator.Page(groupID, args)
}

// fanOut delivers the side effects of a new message: badge increments for
// every other member, then a push to each member with a registered device.
// Everything here is best-effort — failures are logged and dropped, never
// surfaced to the creation caller, and one recipient's failure never affects
// another's delivery.
func (s *MessageService) fanOut(message *models.Message, author *models.User, group *models.Group) {
	members, err := s.groupMembers(group.ID)
	if err != nil {
		log.Printf("fanout: load members for group %d: %v", group.ID, err)
		return
	}

	// Increments run concurrently with no mutual ordering; each succeeds or
	// fails on its own.
	updated := make(chan *models.User, len(members))
	var wg sync.WaitGroup
	for _, member := range members {
		if member.ID == author.ID {
			continue
		}
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			u, err := s.userRepo.IncrementBadge(userID)
			if err != nil {
				log.Printf("fanout: increment badge for user %d: %v", userID, err)
				return
			}
			updated <- u
		}(member.ID)
	}
	wg.Wait()
	close(updated)

	var sendWg sync.WaitGroup
	for recipient := range updated {
		if recipient.RegistrationID == nil || s.notifier == nil {
			continue
		}
		sendWg.Add(1)
		go func(r *models.User) {
			defer sendWg.Done()
			push := notify.Push{
				To: *r.RegistrationID,
				Notification: notify.Notification{
					Title:       author.Username + " @ " + group.Name,
					Body:        message.Text,
					Sound:       "default",
					Badge:       r.BadgeCount,
					ClickAction: "openGroup",
				},
				Data: map[string]interface{}{
					"type":       notify.EventMessageAdded,
					"group_id":   group.ID,
					"group_name": group.Name,
				},
				Priority: notify.PriorityHigh,
			}
			if err := s.notifier.Send(context.Background(), push); err != nil {
				log.Printf("fanout: push to user %d: %v", r.ID, err)
			}
		}(recipient)
	}
	sendWg.Wait()

	if s.publisher != nil {
		live := *message
		live.User = *author
		s.publisher.PublishMessage(group.ID, &live)
	}
}

func (s *MessageService) groupMembers(groupID uint) ([]models.User, error) {
	if members, ok := s.memberCache.GetMembers(groupID); ok {
		return members, nil
	}
	members, err := s.groupRepo.GetMembers(groupID)
	if err != nil {
		return nil, err
	}
	s.memberCache.SetMembers(groupID, members)
	return members, nil
}
