package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/warbler/internal/model"
)

type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID string) error
	Delete(ctx context.Context, followerID, followeeID string) error
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]model.UserSummary, error)
	ListFollowers(ctx context.Context, followeeID string, offset, limit int) ([]model.UserSummary, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) error {
	f := &model.Follow{FollowerID: followerID, FolloweeID: followeeID}
	// 幂等：重复关注不报错
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f).Error
}

// Delete 边不存在时不报错
func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// ListFollowings 返回 followerID 关注的用户，最近关注的在前
func (r *followRepository) ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]model.UserSummary, error) {
	var rows []model.UserSummary
	err := r.db.WithContext(ctx).
		Table("follows").
		Select("users.id", "users.username", "users.image_url", "users.bio").
		Joins("JOIN users ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", followerID).
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ListFollowers 返回关注 followeeID 的用户
func (r *followRepository) ListFollowers(ctx context.Context, followeeID string, offset, limit int) ([]model.UserSummary, error) {
	var rows []model.UserSummary
	err := r.db.WithContext(ctx).
		Table("follows").
		Select("users.id", "users.username", "users.image_url", "users.bio").
		Joins("JOIN users ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", followeeID).
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
