package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/pkg/logger"
)

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID string) error
	Unfollow(ctx context.Context, fromUserID, toUserID string) error
	// IsFollowing userID 是否关注了 otherID
	IsFollowing(ctx context.Context, userID, otherID string) (bool, error)
	// IsFollowedBy otherID 是否关注了 userID
	IsFollowedBy(ctx context.Context, userID, otherID string) (bool, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]model.UserSummary, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]model.UserSummary, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository) RelationshipService {
	return &relationshipService{followRepo: followRepo, userRepo: userRepo}
}

// Follow 幂等；目标不存在返回 ErrUserNotFound
func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	if err := s.requireUser(ctx, toUserID); err != nil {
		return err
	}
	if err := s.followRepo.Create(ctx, fromUserID, toUserID); err != nil {
		logger.Error("follow failed", zap.String("from", fromUserID), zap.String("to", toUserID), zap.Error(err))
		return err
	}
	followsTotal.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow 关系不存在时为 no-op
func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) error {
	if err := s.requireUser(ctx, toUserID); err != nil {
		return err
	}
	if err := s.followRepo.Delete(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	followsTotal.WithLabelValues("unfollow").Inc()
	return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, userID, otherID string) (bool, error) {
	return s.followRepo.Exists(ctx, userID, otherID)
}

func (s *relationshipService) IsFollowedBy(ctx context.Context, userID, otherID string) (bool, error) {
	return s.followRepo.Exists(ctx, otherID, userID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]model.UserSummary, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	offset, limit := paginate(page, pageSize)
	return s.followRepo.ListFollowings(ctx, userID, offset, limit)
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]model.UserSummary, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	offset, limit := paginate(page, pageSize)
	return s.followRepo.ListFollowers(ctx, userID, offset, limit)
}

func (s *relationshipService) requireUser(ctx context.Context, id string) error {
	_, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
