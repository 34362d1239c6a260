package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/pkg/credential"
	"github.com/d60-Lab/warbler/pkg/logger"
)

var validate = validator.New()

// PasswordHasher 口令哈希，由 pkg/credential 实现
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// ProfileDefaults 未提供图片时的默认值
type ProfileDefaults struct {
	ImageURL       string
	HeaderImageURL string
}

type SignupInput struct {
	Username string `validate:"required,max=64"`
	Email    string `validate:"required,email,max=255"`
	Password string
	ImageURL string `validate:"omitempty,max=2048"`
}

// ProfileUpdate nil 字段保持不变
type ProfileUpdate struct {
	Username       *string `validate:"omitempty,max=64"`
	Email          *string `validate:"omitempty,email,max=255"`
	ImageURL       *string `validate:"omitempty,max=2048"`
	HeaderImageURL *string `validate:"omitempty,max=2048"`
	Bio            *string `validate:"omitempty,max=1000"`
	Location       *string `validate:"omitempty,max=100"`
}

// AccountService 账户：注册、认证、资料修改、注销
type AccountService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	// Authenticate 用户名不存在或密码错误时返回 (nil, nil)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	EditProfile(ctx context.Context, userID string, upd ProfileUpdate, confirmPassword string) (*model.User, error)
	Delete(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (*model.User, error)
	List(ctx context.Context, query string, page, pageSize int) ([]*model.User, error)
	Counts(ctx context.Context, userID string) (repository.UserCounts, error)
}

type accountService struct {
	users    repository.UserRepository
	hasher   PasswordHasher
	defaults ProfileDefaults
}

func NewAccountService(users repository.UserRepository, hasher PasswordHasher, defaults ProfileDefaults) AccountService {
	return &accountService{users: users, hasher: hasher, defaults: defaults}
}

func (s *accountService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}
	// bcrypt 按字节截断，validator 的 max 按 rune 计，这里直接比较字节数
	if len(in.Password) > credential.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	// 预检查只为给出明确的冲突字段；并发下由唯一索引兜底（见 Create 处）
	if taken, err := s.users.UsernameTaken(ctx, in.Username, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.users.EmailTaken(ctx, in.Email, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if errors.Is(err, credential.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:             uuid.New().String(),
		Username:       in.Username,
		Email:          in.Email,
		Password:       hash,
		ImageURL:       in.ImageURL,
		HeaderImageURL: s.defaults.HeaderImageURL,
	}
	if u.ImageURL == "" {
		u.ImageURL = s.defaults.ImageURL
	}

	// 唯一约束仍是最终裁决（并发注册）
	if err := s.users.Create(ctx, u); err != nil {
		if mapped := mapDuplicate(err); mapped != nil {
			return nil, mapped
		}
		logger.Error("signup failed", zap.String("username", u.Username), zap.Error(err))
		return nil, err
	}
	signupsTotal.Inc()
	return u, nil
}

func (s *accountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("authenticate lookup failed", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if !s.hasher.Verify(u.Password, password) {
		return nil, nil
	}
	return u, nil
}

func (s *accountService) EditProfile(ctx context.Context, userID string, upd ProfileUpdate, confirmPassword string) (*model.User, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 先用当前用户名重新认证，失败则不修改任何字段
	authed, err := s.Authenticate(ctx, current.Username, confirmPassword)
	if err != nil {
		return nil, err
	}
	if authed == nil || authed.ID != current.ID {
		return nil, ErrWrongPassword
	}

	upd.Username = trimmed(upd.Username)
	upd.Email = trimmed(upd.Email)
	if err := validate.Struct(upd); err != nil {
		return nil, invalid(err)
	}
	if (upd.Username != nil && *upd.Username == "") || (upd.Email != nil && *upd.Email == "") {
		return nil, classified(ErrValidation, "username and email cannot be blank")
	}

	fields := make(map[string]interface{})
	if upd.Username != nil && *upd.Username != current.Username {
		name := *upd.Username
		if taken, err := s.users.UsernameTaken(ctx, name, current.ID); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrUsernameTaken
		}
		fields["username"] = name
	}
	if upd.Email != nil && *upd.Email != current.Email {
		email := *upd.Email
		if taken, err := s.users.EmailTaken(ctx, email, current.ID); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrEmailTaken
		}
		fields["email"] = email
	}
	if upd.ImageURL != nil {
		fields["image_url"] = orDefault(*upd.ImageURL, s.defaults.ImageURL)
	}
	if upd.HeaderImageURL != nil {
		fields["header_image_url"] = orDefault(*upd.HeaderImageURL, s.defaults.HeaderImageURL)
	}
	if upd.Bio != nil {
		fields["bio"] = *upd.Bio
	}
	if upd.Location != nil {
		fields["location"] = *upd.Location
	}

	if err := s.users.Update(ctx, current.ID, fields); err != nil {
		if mapped := mapDuplicate(err); mapped != nil {
			return nil, mapped
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Get(ctx, current.ID)
}

func (s *accountService) Delete(ctx context.Context, userID string) error {
	err := s.users.Delete(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	logger.Info("account deleted", zap.String("user_id", userID))
	return nil
}

func (s *accountService) Get(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *accountService) List(ctx context.Context, query string, page, pageSize int) ([]*model.User, error) {
	offset, limit := paginate(page, pageSize)
	return s.users.List(ctx, strings.TrimSpace(query), offset, limit)
}

func (s *accountService) Counts(ctx context.Context, userID string) (repository.UserCounts, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return repository.UserCounts{}, err
	}
	return s.users.Counts(ctx, userID)
}

func mapDuplicate(err error) error {
	var dup *repository.DuplicateError
	if !errors.As(err, &dup) {
		return nil
	}
	switch dup.Column {
	case "username":
		return ErrUsernameTaken
	case "email":
		return ErrEmailTaken
	}
	return ErrConflict
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// paginate 页码从 1 开始；pageSize 限制在 [1, 100]
func paginate(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return (page - 1) * pageSize, pageSize
}
