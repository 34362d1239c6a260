package model

import "time"

// User 账户。Password 只保存 bcrypt 哈希；Email 不出现在公开 JSON 中，
// 仅通过 handler 的 accountView 返回给本人
type User struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email" json:"-"`
	Username       string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_users_username" json:"username"`
	Password       string    `gorm:"type:text;not null" json:"-"`
	ImageURL       string    `gorm:"type:text" json:"image_url"`
	HeaderImageURL string    `gorm:"type:text" json:"header_image_url"`
	Bio            string    `gorm:"type:text" json:"bio"`
	Location       string    `gorm:"type:text" json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserSummary 列表页所需的最少字段
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
	Bio      string `json:"bio"`
}

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{&User{}, &Follow{}, &Message{}, &Like{}}
}
