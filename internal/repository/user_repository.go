package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/internal/model"
)

// UserCounts 个人主页统计
type UserCounts struct {
	Messages  int64 `json:"messages"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Likes     int64 `json:"likes"`
}

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*model.User, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query string, offset, limit int) ([]*model.User, error)
	Counts(ctx context.Context, id string) (UserCounts, error)
}

var uniqueUserColumns = []string{"username", "email"}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, uniqueUserColumns...)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetByIDs 批量加载，缺失的 id 不出现在结果中
func (r *userRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	out := make(map[string]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *userRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	return r.taken(ctx, "username", username, excludeID)
}

func (r *userRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

func (r *userRepository) taken(ctx context.Context, column, value, excludeID string) (bool, error) {
	var cnt int64
	q := r.db.WithContext(ctx).Model(&model.User{}).Where(column+" = ?", value)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// Update 只更新传入的列；用户不存在返回 ErrNotFound
func (r *userRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, uniqueUserColumns...)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除用户；消息、点赞、关注关系由外键级联删除
func (r *userRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List 按用户名子串搜索，query 为空时返回全部
func (r *userRepository) List(ctx context.Context, query string, offset, limit int) ([]*model.User, error) {
	var res []*model.User
	q := r.db.WithContext(ctx).Order("username ASC")
	if query != "" {
		q = q.Where(`username LIKE ? ESCAPE '\'`, "%"+escapeLike(query)+"%")
	}
	err := q.Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *userRepository) Counts(ctx context.Context, id string) (UserCounts, error) {
	var c UserCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Message{}).Where("user_id = ?", id).Count(&c.Messages).Error; err != nil {
		return c, err
	}
	if err := db.Model(&model.Follow{}).Where("followee_id = ?", id).Count(&c.Followers).Error; err != nil {
		return c, err
	}
	if err := db.Model(&model.Follow{}).Where("follower_id = ?", id).Count(&c.Following).Error; err != nil {
		return c, err
	}
	if err := db.Model(&model.Like{}).Where("user_id = ?", id).Count(&c.Likes).Error; err != nil {
		return c, err
	}
	return c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
