package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/warbler/internal/model"
)

type LikeRepository interface {
	// Toggle 已点赞则取消，否则点赞；返回操作后的状态
	Toggle(ctx context.Context, userID, messageID string) (bool, error)
	Exists(ctx context.Context, userID, messageID string) (bool, error)
	// LikedAmong 返回 messageIDs 中 userID 点过赞的子集
	LikedAmong(ctx context.Context, userID string, messageIDs []string) (map[string]bool, error)
	CountByMessage(ctx context.Context, messageID string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Toggle(ctx context.Context, userID, messageID string) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND message_id = ?", userID, messageID).Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		l := &model.Like{ID: uuid.New().String(), UserID: userID, MessageID: messageID}
		// 并发点赞时对方已写入，结果同为"已点赞"
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, messageID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) LikedAmong(ctx context.Context, userID string, messageIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(messageIDs))
	if len(messageIDs) == 0 {
		return out, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND message_id IN ?", userID, messageIDs).
		Pluck("message_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *likeRepository) CountByMessage(ctx context.Context, messageID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("message_id = ?", messageID).Count(&cnt).Error
	return cnt, err
}
