package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ethanx94/chatty/internal/auth"
	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/notify"
	"github.com/ethanx94/chatty/internal/pagination"
	"github.com/ethanx94/chatty/internal/testutil"
)

func paginationArgs(first int) pagination.Args {
	return pagination.Args{First: first}
}

// mockSender records pushes; fan-out sends concurrently so it locks.
type mockSender struct {
	mu     sync.Mutex
	pushes []notify.Push
	err    error
}

func (m *mockSender) Send(ctx context.Context, push notify.Push) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.pushes = append(m.pushes, push)
	return nil
}

func (m *mockSender) Pushes() []notify.Push {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Push(nil), m.pushes...)
}

type mockPublisher struct {
	mu       sync.Mutex
	groupIDs []uint
	messages []*models.Message
}

func (m *mockPublisher) PublishMessage(groupID uint, message *models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groupIDs = append(m.groupIDs, groupID)
	m.messages = append(m.messages, message)
}

func TestCreateMessage(t *testing.T) {
	h := testutil.NewTestHelper(t)

	member := h.CreateTestUser(1, "member", "")
	outsider := h.CreateTestUser(2, "outsider", "o@example.com")
	group := h.CreateTestGroup(10, "book club", member)

	userRepo := NewMockUserRepository()
	userRepo.Add(member)
	userRepo.Add(outsider)
	groupRepo := NewMockGroupRepository()
	groupRepo.Add(group)
	messageRepo := NewMockMessageRepository()

	svc := NewMessageService(messageRepo, groupRepo, userRepo, nil, nil, nil)

	tests := []struct {
		name      string
		ctx       *auth.Context
		groupID   uint
		text      string
		shouldErr bool
	}{
		{"Member posts a message", auth.NewContext(member), 10, "hello there", false},
		{"Non-member is rejected", auth.NewContext(outsider), 10, "let me in", true},
		{"Missing group is rejected", auth.NewContext(member), 99, "anyone?", true},
		{"Blank text is rejected", auth.NewContext(member), 10, "   ", true},
		{"Oversized text is rejected", auth.NewContext(member), 10, strings.Repeat("a", 4001), true},
		{"Unauthenticated is rejected", auth.NewContext(nil), 10, "hello", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message, err := svc.CreateMessage(tt.ctx, tt.groupID, tt.text)
			h.AssertError(err, tt.shouldErr, tt.name)
			if tt.shouldErr {
				return
			}
			if message.ID == 0 {
				t.Errorf("CreateMessage did not persist the message")
			}
			if message.UserID != member.ID || message.GroupID != tt.groupID {
				t.Errorf("CreateMessage stored user %d group %d, want user %d group %d",
					message.UserID, message.GroupID, member.ID, tt.groupID)
			}
		})
	}

	t.Run("Non-member error is ErrUnauthorized", func(t *testing.T) {
		_, err := svc.CreateMessage(auth.NewContext(outsider), 10, "hi")
		if !errors.Is(err, auth.ErrUnauthorized) {
			t.Errorf("CreateMessage error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestFanOut(t *testing.T) {
	h := testutil.NewTestHelper(t)

	author := h.CreateTestUserWithDevice(1, "author", "author-device")
	withDevice := h.CreateTestUserWithDevice(2, "carol", "carol-device")
	noDevice := h.CreateTestUser(3, "dave", "dave@example.com")
	group := h.CreateTestGroup(10, "book club", author, withDevice, noDevice)

	userRepo := NewMockUserRepository()
	userRepo.Add(author)
	userRepo.Add(withDevice)
	userRepo.Add(noDevice)
	groupRepo := NewMockGroupRepository()
	groupRepo.Add(group)
	messageRepo := NewMockMessageRepository()

	sender := &mockSender{}
	publisher := &mockPublisher{}
	svc := NewMessageService(messageRepo, groupRepo, userRepo, sender, nil, publisher)

	message := h.CreateTestMessage(1, author.ID, group.ID, "big news")
	svc.fanOut(message, author, group)

	t.Run("Every other member gets a badge increment", func(t *testing.T) {
		h.AssertEqual(userRepo.BadgeIncrements[withDevice.ID], 1, "carol increments")
		h.AssertEqual(userRepo.BadgeIncrements[noDevice.ID], 1, "dave increments")
	})

	t.Run("Author is never incremented or pushed", func(t *testing.T) {
		h.AssertEqual(userRepo.BadgeIncrements[author.ID], 0, "author increments")
		for _, push := range sender.Pushes() {
			if push.To == "author-device" {
				t.Errorf("push delivered to the author's own device")
			}
		}
	})

	t.Run("Only registered devices are pushed", func(t *testing.T) {
		pushes := sender.Pushes()
		if len(pushes) != 1 {
			t.Fatalf("got %d pushes, want 1", len(pushes))
		}
		push := pushes[0]
		h.AssertEqual(push.To, "carol-device", "push target")
		h.AssertEqual(push.Notification.Title, "author @ book club", "push title")
		h.AssertEqual(push.Notification.Body, "big news", "push body")
		h.AssertEqual(push.Notification.Badge, 1, "push badge")
		h.AssertEqual(push.Priority, notify.PriorityHigh, "push priority")
	})

	t.Run("Live subscribers get the message", func(t *testing.T) {
		publisher.mu.Lock()
		defer publisher.mu.Unlock()
		if len(publisher.messages) != 1 {
			t.Fatalf("got %d published messages, want 1", len(publisher.messages))
		}
		h.AssertEqual(publisher.groupIDs[0], group.ID, "published group")
		h.AssertEqual(publisher.messages[0].User.Username, "author", "published author")
	})
}

func TestFanOutPushFailureIsDropped(t *testing.T) {
	h := testutil.NewTestHelper(t)

	author := h.CreateTestUser(1, "author", "")
	withDevice := h.CreateTestUserWithDevice(2, "carol", "carol-device")
	group := h.CreateTestGroup(10, "book club", author, withDevice)

	userRepo := NewMockUserRepository()
	userRepo.Add(author)
	userRepo.Add(withDevice)
	groupRepo := NewMockGroupRepository()
	groupRepo.Add(group)

	sender := &mockSender{err: errors.New("fcm unavailable")}
	svc := NewMessageService(NewMockMessageRepository(), groupRepo, userRepo, sender, nil, nil)

	message := h.CreateTestMessage(1, author.ID, group.ID, "still works")
	svc.fanOut(message, author, group)

	// The increment still lands even though the push failed.
	h.AssertEqual(userRepo.BadgeIncrements[withDevice.ID], 1, "carol increments")
}

func TestPageMessagesAuthorization(t *testing.T) {
	h := testutil.NewTestHelper(t)

	member := h.CreateTestUser(1, "member", "")
	outsider := h.CreateTestUser(2, "outsider", "o@example.com")
	group := h.CreateTestGroup(10, "book club", member)

	groupRepo := NewMockGroupRepository()
	groupRepo.Add(group)
	messageRepo := NewMockMessageRepository()
	messageRepo.Create(h.CreateTestMessage(1, 1, 10, "one"))
	messageRepo.Create(h.CreateTestMessage(2, 1, 10, "two"))

	svc := NewMessageService(messageRepo, groupRepo, NewMockUserRepository(), nil, nil, nil)

	t.Run("Member pages the feed", func(t *testing.T) {
		conn, err := svc.PageMessages(auth.NewContext(member), 10, paginationArgs(2))
		h.AssertError(err, false, "member page")
		if len(conn.Edges) != 2 {
			t.Errorf("got %d edges, want 2", len(conn.Edges))
		}
	})

	t.Run("Non-member is rejected", func(t *testing.T) {
		_, err := svc.PageMessages(auth.NewContext(outsider), 10, paginationArgs(2))
		if !errors.Is(err, auth.ErrUnauthorized) {
			t.Errorf("PageMessages error = %v, want ErrUnauthorized", err)
		}
	})
}
