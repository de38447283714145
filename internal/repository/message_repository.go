package repository

import (
	"errors"

	"github.com/ethanx94/chatty/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("User").First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// FindGroupPage returns one feed page: the group's messages matching the id
// filter, newest first. limit <= 0 means unbounded.
func (r *MessageRepository) FindGroupPage(groupID uint, filter *IDFilter, limit int) ([]models.Message, error) {
	q := r.db.Preload("User").Where("group_id = ?", groupID)
	q = applyIDFilter(q, filter)
	q = q.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var messages []models.Message
	err := q.Find(&messages).Error
	return messages, err
}

// ExistsInGroup reports whether at least one message in the group matches the
// filter. Read-only; used by the paginator's page-existence probes.
func (r *MessageRepository) ExistsInGroup(groupID uint, filter *IDFilter, ascending bool) (bool, error) {
	q := r.db.Model(&models.Message{}).Where("group_id = ?", groupID)
	q = applyIDFilter(q, filter)
	order := "id DESC"
	if ascending {
		order = "id ASC"
	}
	var probe models.Message
	err := q.Select("id").Order(order).Take(&probe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MessageRepository) FindByUser(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) DeleteByGroup(groupID uint) error {
	return r.db.Where("group_id = ?", groupID).Delete(&models.Message{}).Error
}
