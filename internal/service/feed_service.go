package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
)

// FeedLimits 默认条数与上限
type FeedLimits struct {
	Default int
	Max     int
}

// FeedService 首页时间线：自己与关注者的消息，最新在前
type FeedService interface {
	GetFeed(ctx context.Context, userID string, limit int) ([]*model.Message, error)
}

type feedService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	limits   FeedLimits
}

func NewFeedService(messages repository.MessageRepository, users repository.UserRepository, limits FeedLimits) FeedService {
	if limits.Default <= 0 {
		limits.Default = 100
	}
	if limits.Max < limits.Default {
		limits.Max = limits.Default
	}
	return &feedService{messages: messages, users: users, limits: limits}
}

// GetFeed limit<=0 取默认值，超过上限按上限截断；结果附带作者信息。
// 用户不存在返回 ErrUserNotFound
func (s *feedService) GetFeed(ctx context.Context, userID string, limit int) ([]*model.Message, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if limit <= 0 {
		limit = s.limits.Default
	}
	if limit > s.limits.Max {
		limit = s.limits.Max
	}

	msgs, err := s.messages.Feed(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(msgs))
	seen := make(map[string]struct{})
	for _, m := range msgs {
		if _, ok := seen[m.UserID]; !ok {
			seen[m.UserID] = struct{}{}
			ids = append(ids, m.UserID)
		}
	}
	authors, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		m.User = authors[m.UserID]
	}
	return msgs, nil
}
