// Package testutil holds fixtures shared by repository, service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/pkg/database"
)

// NewDB 打开独立的内存 sqlite 库（外键开启）并完成迁移
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn, false)
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	// 单连接：内存库随最后一个连接关闭而销毁
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser 直接写入一个用户（密码字段为占位哈希）
func SeedUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$04$placeholderplaceholderplaceholderplaceholderplace",
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// SeedMessage 以指定时间写入一条消息
func SeedMessage(tb testing.TB, db *gorm.DB, userID, text string, at time.Time) *model.Message {
	tb.Helper()
	m := &model.Message{ID: uuid.NewString(), UserID: userID, Text: text, CreatedAt: at.UTC()}
	if err := db.Omit(clause.Associations).Create(m).Error; err != nil {
		tb.Fatalf("seed message: %v", err)
	}
	return m
}

// SeedFollow 写入关注边 follower -> followee
func SeedFollow(tb testing.TB, db *gorm.DB, followerID, followeeID string) {
	tb.Helper()
	f := &model.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := db.WithContext(context.Background()).Omit(clause.Associations).Create(f).Error; err != nil {
		tb.Fatalf("seed follow: %v", err)
	}
}

// Count 统计表行数
func Count(tb testing.TB, db *gorm.DB, m interface{}, where ...interface{}) int64 {
	tb.Helper()
	var n int64
	q := db.Model(m)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	if err := q.Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}
