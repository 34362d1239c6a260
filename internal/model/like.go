package model

import "time"

// Like 用户对消息的点赞，(user_id, message_id) 唯一
type Like struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_like_user_message"`
	MessageID string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_like_user_message;index:idx_like_message"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Message   *Message  `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
