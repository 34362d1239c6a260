package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// MaxMessageLength 消息正文最大字符数（按 rune 计）
const MaxMessageLength = 140

var (
	ErrMessageEmpty   = errors.New("message text is required")
	ErrMessageTooLong = errors.New("message text exceeds 140 characters")
)

// Message 用户发布的短消息
type Message struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Text      string    `gorm:"type:varchar(140);not null" json:"text"`
	UserID    string    `gorm:"type:varchar(36);not null;index:idx_message_user_created" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time `gorm:"not null;index:idx_message_user_created;index:idx_message_created" json:"timestamp"`
}

func (Message) TableName() string { return "messages" }

// ValidateMessageText 校验正文非空且不超过 MaxMessageLength
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrMessageEmpty
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// BeforeSave 在存储层强制长度约束，sqlite 不校验 varchar 长度
func (m *Message) BeforeSave(tx *gorm.DB) error {
	return ValidateMessageText(m.Text)
}
