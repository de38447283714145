package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/ethanx94/chatty/internal/models"
	"gorm.io/gorm"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, username, email string) *models.User {
	if id == 0 {
		id = 1
	}
	if username == "" {
		username = "testuser"
	}
	if email == "" {
		email = "test@example.com"
	}

	return &models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "hashed_password_123",
		BadgeCount:   0,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateTestUserWithDevice creates a test user carrying a push token
func (h *TestHelper) CreateTestUserWithDevice(id uint, username, token string) *models.User {
	u := h.CreateTestUser(id, username, "")
	if username != "" {
		u.Email = username + "@example.com"
	}
	u.RegistrationID = &token
	return u
}

// CreateTestGroup creates a test group with the given members
func (h *TestHelper) CreateTestGroup(id uint, name string, members ...*models.User) *models.Group {
	if id == 0 {
		id = 1
	}
	if name == "" {
		name = "testgroup"
	}
	return &models.Group{
		ID:        id,
		Name:      name,
		Members:   members,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CreateTestMessage creates a test message with default values
func (h *TestHelper) CreateTestMessage(id uint, userID uint, groupID uint, text string) *models.Message {
	if id == 0 {
		id = 1
	}
	if userID == 0 {
		userID = 1
	}
	if groupID == 0 {
		groupID = 1
	}
	if text == "" {
		text = "Test message"
	}

	return &models.Message{
		ID:        id,
		Text:      text,
		UserID:    userID,
		GroupID:   groupID,
		CreatedAt: time.Now(),
		User: models.User{
			ID:       userID,
			Username: "sender",
			Email:    "sender@example.com",
		},
	}
}

// SetupTestEnv sets up required environment variables for testing
func (h *TestHelper) SetupTestEnv() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	os.Setenv("DATABASE_URL", "")
	os.Setenv("PASSWORD_MIN_LENGTH", "10")
}

// TeardownTestEnv cleans up environment variables after testing
func (h *TestHelper) TeardownTestEnv() {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("PASSWORD_MIN_LENGTH")
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}

// AssertNotNil checks if a value is not nil
func (h *TestHelper) AssertNotNil(value interface{}, testName string) {
	if value == nil {
		h.t.Errorf("%s: expected non-nil value", testName)
	}
}

// AssertNil checks if a value is nil
func (h *TestHelper) AssertNil(value interface{}, testName string) {
	if value != nil {
		h.t.Errorf("%s: expected nil value but got %v", testName, value)
	}
}

// GetRecordNotFoundError returns the gorm sentinel used by the repositories
func GetRecordNotFoundError() error {
	return gorm.ErrRecordNotFound
}
