package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/warbler/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Message, error)
	ListLikedBy(ctx context.Context, userID string, offset, limit int) ([]*model.Message, error)
	Feed(ctx context.Context, userID string, limit int) ([]*model.Message, error)
}

// feedSQL 关注者的消息 UNION ALL 自己的消息，整体排序后截断。
// 不允许关注自己，两部分不相交。
const feedSQL = `
SELECT messages.id, messages.text, messages.user_id, messages.created_at
FROM messages
JOIN follows ON follows.followee_id = messages.user_id
WHERE follows.follower_id = ?
UNION ALL
SELECT messages.id, messages.text, messages.user_id, messages.created_at
FROM messages
WHERE messages.user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository { return &messageRepository{db: db} }

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var m model.Message
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// Delete 点赞由外键级联删除
func (r *messageRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *messageRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Message, error) {
	var res []*model.Message
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

// ListLikedBy 用户点过赞的消息，按点赞时间倒序
func (r *messageRepository) ListLikedBy(ctx context.Context, userID string, offset, limit int) ([]*model.Message, error) {
	var res []*model.Message
	err := r.db.WithContext(ctx).
		Select("messages.*").
		Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *messageRepository) Feed(ctx context.Context, userID string, limit int) ([]*model.Message, error) {
	var res []*model.Message
	if err := r.db.WithContext(ctx).Raw(feedSQL, userID, userID, limit).Scan(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}
