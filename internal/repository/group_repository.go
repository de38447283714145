package repository

import (
	"github.com/ethanx94/chatty/internal/models"
	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create persists the group along with join rows for any preset Members.
func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByIDForMember is the membership-filtered lookup: it returns the group
// only if userID is among its members. A not-found result is indistinguishable
// from a missing group, which is exactly the combined existence+authorization
// check the callers rely on.
func (r *GroupRepository) FindByIDForMember(groupID, userID uint) (*models.Group, error) {
	var group models.Group
	err := r.db.Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("groups.id = ? AND group_members.user_id = ?", groupID, userID).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Update applies an already-built partial update in a single call.
func (r *GroupRepository) Update(groupID uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Group{}).Where("id = ?", groupID).Updates(updates).Error
}

func (r *GroupRepository) AddMembers(groupID uint, userIDs []uint) error {
	for _, userID := range userIDs {
		err := r.db.Exec(`
			INSERT INTO group_members (group_id, user_id)
			VALUES (?, ?)
			ON CONFLICT DO NOTHING
		`, groupID, userID).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *GroupRepository) RemoveMember(groupID, userID uint) error {
	return r.db.Exec(`
		DELETE FROM group_members WHERE group_id = ? AND user_id = ?
	`, groupID, userID).Error
}

func (r *GroupRepository) RemoveAllMembers(groupID uint) error {
	return r.db.Exec(`DELETE FROM group_members WHERE group_id = ?`, groupID).Error
}

func (r *GroupRepository) GetMembers(groupID uint) ([]models.User, error) {
	var members []models.User
	err := r.db.Joins("JOIN group_members ON group_members.user_id = users.id").
		Where("group_members.group_id = ?", groupID).
		Find(&members).Error
	return members, err
}

func (r *GroupRepository) CountMembers(groupID uint) (int64, error) {
	var count int64
	err := r.db.Table("group_members").
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

func (r *GroupRepository) Destroy(groupID uint) error {
	return r.db.Delete(&models.Group{}, groupID).Error
}
