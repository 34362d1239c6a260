package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// DuplicateError 违反唯一约束，Column 为冲突列（无法识别时为空）
type DuplicateError struct {
	Column string
	Err    error
}

func (e *DuplicateError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("duplicate key: %v", e.Err)
	}
	return fmt.Sprintf("duplicate %s: %v", e.Column, e.Err)
}

func (e *DuplicateError) Unwrap() error { return e.Err }

const pgUniqueViolation = "23505"

// translate 将驱动错误映射为仓储层错误
func translate(err error, columns ...string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return &DuplicateError{Column: matchColumn(err, columns), Err: err}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// matchColumn 从约束名/错误信息中识别冲突列：
// postgres: `unique constraint "idx_users_username"`，sqlite: `UNIQUE constraint failed: users.username`
func matchColumn(err error, columns []string) string {
	var pgErr *pgconn.PgError
	msg := err.Error()
	if errors.As(err, &pgErr) {
		msg = pgErr.ConstraintName + " " + pgErr.Detail
	}
	msg = strings.ToLower(msg)
	for _, c := range columns {
		if strings.Contains(msg, c) {
			return c
		}
	}
	return ""
}
