package repository

import (
	"github.com/ethanx94/chatty/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	UpdateRegistrationID(userID uint, token *string) error
	AddFriend(userID, friendID uint) error
	GetFriends(userID uint) ([]models.User, error)
	FindFriends(userID uint, friendIDs []uint) ([]models.User, error)
	GetGroups(userID uint) ([]models.Group, error)
	GetGroupsByIDs(userID uint, groupIDs []uint) ([]models.Group, error)
	IncrementBadge(userID uint) (*models.User, error)
	ResetBadge(userID uint) error
}

// GroupRepositoryInterface defines the contract for group repository operations
type GroupRepositoryInterface interface {
	Create(group *models.Group) error
	FindByID(id uint) (*models.Group, error)
	FindByIDForMember(groupID, userID uint) (*models.Group, error)
	Update(groupID uint, updates map[string]interface{}) error
	AddMembers(groupID uint, userIDs []uint) error
	RemoveMember(groupID, userID uint) error
	RemoveAllMembers(groupID uint) error
	GetMembers(groupID uint) ([]models.User, error)
	CountMembers(groupID uint) (int64, error)
	Destroy(groupID uint) error
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	FindGroupPage(groupID uint, filter *IDFilter, limit int) ([]models.Message, error)
	ExistsInGroup(groupID uint, filter *IDFilter, ascending bool) (bool, error)
	FindByUser(userID uint) ([]models.Message, error)
	DeleteByGroup(groupID uint) error
}

// LastReadRepositoryInterface defines the contract for read-marker operations
type LastReadRepositoryInterface interface {
	Replace(userID, groupID, messageID uint) error
	Get(userID, groupID uint) (*models.LastRead, error)
	DeleteForMember(userID, groupID uint) error
}
