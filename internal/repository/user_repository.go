package repository

import (
	"github.com/ethanx94/chatty/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateRegistrationID(userID uint, token *string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("registration_id", token).Error
}

// AddFriend records a friendship in both directions; the relation is symmetric.
func (r *UserRepository) AddFriend(userID, friendID uint) error {
	return r.db.Exec(`
		INSERT INTO user_friends (user_id, friend_id)
		VALUES (?, ?), (?, ?)
		ON CONFLICT DO NOTHING
	`, userID, friendID, friendID, userID).Error
}

func (r *UserRepository) GetFriends(userID uint) ([]models.User, error) {
	var friends []models.User
	err := r.db.Joins("JOIN user_friends ON user_friends.friend_id = users.id").
		Where("user_friends.user_id = ?", userID).
		Find(&friends).Error
	return friends, err
}

// FindFriends returns the intersection of the user's friend list with the
// requested ids. Ids that are not friends are silently dropped.
func (r *UserRepository) FindFriends(userID uint, friendIDs []uint) ([]models.User, error) {
	if len(friendIDs) == 0 {
		return []models.User{}, nil
	}
	var friends []models.User
	err := r.db.Joins("JOIN user_friends ON user_friends.friend_id = users.id").
		Where("user_friends.user_id = ? AND users.id IN ?", userID, friendIDs).
		Find(&friends).Error
	return friends, err
}

func (r *UserRepository) GetGroups(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Find(&groups).Error
	return groups, err
}

// GetGroupsByIDs returns the user's groups restricted to groupIDs — the
// membership intersection used by subscription authorization.
func (r *UserRepository) GetGroupsByIDs(userID uint, groupIDs []uint) ([]models.Group, error) {
	if len(groupIDs) == 0 {
		return []models.Group{}, nil
	}
	var groups []models.Group
	err := r.db.Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ? AND groups.id IN ?", userID, groupIDs).
		Find(&groups).Error
	return groups, err
}

// IncrementBadge bumps badge_count atomically and returns the updated row,
// so callers see the post-increment count without a read-modify-write race.
func (r *UserRepository) IncrementBadge(userID uint) (*models.User, error) {
	if err := r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("badge_count", gorm.Expr("badge_count + ?", 1)).Error; err != nil {
		return nil, err
	}
	return r.FindByID(userID)
}

func (r *UserRepository) ResetBadge(userID uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("badge_count", 0).Error
}
