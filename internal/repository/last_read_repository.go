package repository

import (
	"github.com/ethanx94/chatty/internal/models"
	"gorm.io/gorm"
)

type LastReadRepository struct {
	db *gorm.DB
}

func NewLastReadRepository(db *gorm.DB) *LastReadRepository {
	return &LastReadRepository{db: db}
}

// Replace removes the prior marker and writes the new one. The two steps are
// deliberately not atomic with any surrounding group update.
func (r *LastReadRepository) Replace(userID, groupID, messageID uint) error {
	if err := r.db.Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&models.LastRead{}).Error; err != nil {
		return err
	}
	return r.db.Create(&models.LastRead{
		UserID:    userID,
		GroupID:   groupID,
		MessageID: messageID,
	}).Error
}

func (r *LastReadRepository) Get(userID, groupID uint) (*models.LastRead, error) {
	var marker models.LastRead
	err := r.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&marker).Error
	if err != nil {
		return nil, err
	}
	return &marker, nil
}

func (r *LastReadRepository) DeleteForMember(userID, groupID uint) error {
	return r.db.Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&models.LastRead{}).Error
}
