package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/pkg/logger"
)

// UserMessageLimit 个人主页展示的消息数
const UserMessageLimit = 100

// ContentService 消息与点赞
type ContentService interface {
	PostMessage(ctx context.Context, userID, text string) (*model.Message, error)
	GetMessage(ctx context.Context, messageID string) (*model.Message, error)
	// DeleteMessage 仅作者本人可删除
	DeleteMessage(ctx context.Context, requesterID, messageID string) error
	// ToggleLike 返回操作后是否处于点赞状态
	ToggleLike(ctx context.Context, userID, messageID string) (bool, error)
	IsLiked(ctx context.Context, userID, messageID string) (bool, error)
	LikedAmong(ctx context.Context, userID string, messageIDs []string) (map[string]bool, error)
	ListUserMessages(ctx context.Context, userID string, limit int) ([]*model.Message, error)
	ListLikedMessages(ctx context.Context, userID string, page, pageSize int) ([]*model.Message, error)
}

type contentService struct {
	messages repository.MessageRepository
	likes    repository.LikeRepository
	users    repository.UserRepository
}

func NewContentService(messages repository.MessageRepository, likes repository.LikeRepository, users repository.UserRepository) ContentService {
	return &contentService{messages: messages, likes: likes, users: users}
}

func (s *contentService) PostMessage(ctx context.Context, userID, text string) (*model.Message, error) {
	if err := model.ValidateMessageText(text); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	m := &model.Message{ID: uuid.New().String(), UserID: userID, Text: text}
	if err := s.messages.Create(ctx, m); err != nil {
		if errors.Is(err, model.ErrMessageTooLong) || errors.Is(err, model.ErrMessageEmpty) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		logger.Error("post message failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	messagesPostedTotal.Inc()
	return m, nil
}

func (s *contentService) GetMessage(ctx context.Context, messageID string) (*model.Message, error) {
	m, err := s.messages.GetByID(ctx, messageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMessageNotFound
	}
	return m, err
}

func (s *contentService) DeleteMessage(ctx context.Context, requesterID, messageID string) error {
	m, err := s.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if m.UserID != requesterID {
		return ErrNotMessageOwner
	}
	err = s.messages.Delete(ctx, messageID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMessageNotFound
	}
	return err
}

func (s *contentService) ToggleLike(ctx context.Context, userID, messageID string) (bool, error) {
	m, err := s.GetMessage(ctx, messageID)
	if err != nil {
		return false, err
	}
	if m.UserID == userID {
		return false, ErrLikeOwnMessage
	}
	liked, err := s.likes.Toggle(ctx, userID, messageID)
	if err != nil {
		return false, err
	}
	if liked {
		likesTotal.WithLabelValues("like").Inc()
	} else {
		likesTotal.WithLabelValues("unlike").Inc()
	}
	return liked, nil
}

func (s *contentService) IsLiked(ctx context.Context, userID, messageID string) (bool, error) {
	return s.likes.Exists(ctx, userID, messageID)
}

func (s *contentService) LikedAmong(ctx context.Context, userID string, messageIDs []string) (map[string]bool, error) {
	return s.likes.LikedAmong(ctx, userID, messageIDs)
}

func (s *contentService) ListUserMessages(ctx context.Context, userID string, limit int) ([]*model.Message, error) {
	if limit <= 0 || limit > UserMessageLimit {
		limit = UserMessageLimit
	}
	return s.messages.ListByUser(ctx, userID, limit)
}

func (s *contentService) ListLikedMessages(ctx context.Context, userID string, page, pageSize int) ([]*model.Message, error) {
	offset, limit := paginate(page, pageSize)
	return s.messages.ListLikedBy(ctx, userID, offset, limit)
}
