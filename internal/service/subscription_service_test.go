package service

import (
	"errors"
	"testing"

	"github.com/ethanx94/chatty/internal/auth"
	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/testutil"
)

func TestAuthorizeGroupAdded(t *testing.T) {
	h := testutil.NewTestHelper(t)
	user := h.CreateTestUser(1, "user", "")
	svc := NewSubscriptionService(NewMockUserRepository())

	tests := []struct {
		name         string
		ctx          *auth.Context
		subscriberID uint
		shouldErr    bool
	}{
		{"Own stream allowed", auth.NewContext(user), 1, false},
		{"Someone else's stream rejected", auth.NewContext(user), 2, true},
		{"Unauthenticated rejected", auth.NewContext(nil), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AuthorizeGroupAdded(tt.ctx, tt.subscriberID)
			h.AssertError(err, tt.shouldErr, tt.name)
			if tt.shouldErr && err != nil && !errors.Is(err, auth.ErrUnauthorized) {
				t.Errorf("AuthorizeGroupAdded error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestAuthorizeMessageAdded(t *testing.T) {
	h := testutil.NewTestHelper(t)

	user := h.CreateTestUser(1, "user", "")
	userRepo := NewMockUserRepository()
	userRepo.Add(user)
	userRepo.AddMembership(1, &models.Group{ID: 10, Name: "a"})
	userRepo.AddMembership(1, &models.Group{ID: 20, Name: "b"})

	svc := NewSubscriptionService(userRepo)
	ctx := auth.NewContext(user)

	t.Run("Subset of memberships allowed", func(t *testing.T) {
		allowed, err := svc.AuthorizeMessageAdded(ctx, []uint{10, 20})
		h.AssertError(err, false, "subset")
		if len(allowed) != 2 {
			t.Errorf("allowed = %v, want both groups", allowed)
		}
	})

	t.Run("Duplicates collapse before the check", func(t *testing.T) {
		allowed, err := svc.AuthorizeMessageAdded(ctx, []uint{10, 10, 20})
		h.AssertError(err, false, "duplicates")
		if len(allowed) != 2 {
			t.Errorf("allowed = %v, want two groups", allowed)
		}
	})

	t.Run("One non-membership rejects the whole claim", func(t *testing.T) {
		_, err := svc.AuthorizeMessageAdded(ctx, []uint{10, 30})
		if !errors.Is(err, auth.ErrUnauthorized) {
			t.Errorf("AuthorizeMessageAdded error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("Unauthenticated rejected", func(t *testing.T) {
		_, err := svc.AuthorizeMessageAdded(auth.NewContext(nil), []uint{10})
		if !errors.Is(err, auth.ErrUnauthorized) {
			t.Errorf("AuthorizeMessageAdded error = %v, want ErrUnauthorized", err)
		}
	})
}
