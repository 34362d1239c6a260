package model

import (
	"time"
)

// Follow 关注关系（A 关注 B）。主键即 (follower_id, followee_id)，任一端用户删除时级联删除
type Follow struct {
	FollowerID string    `gorm:"primaryKey;type:varchar(36)"`
	FolloweeID string    `gorm:"primaryKey;type:varchar(36);index:idx_follow_followee"`
	Follower   *User     `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followee   *User     `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time
}

func (Follow) TableName() string { return "follows" }
