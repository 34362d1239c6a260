package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// 错误类别，调用方通过 errors.Is 判断
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

var (
	ErrUsernameTaken    = classified(ErrConflict, "username already taken")
	ErrEmailTaken       = classified(ErrConflict, "email already taken")
	ErrPasswordRequired = classified(ErrValidation, "password is required")
	ErrPasswordTooLong  = classified(ErrValidation, "password exceeds 72 bytes")
	ErrFollowSelf       = classified(ErrValidation, "cannot follow self")
	ErrLikeOwnMessage   = classified(ErrValidation, "cannot like own message")
	ErrWrongPassword    = classified(ErrUnauthorized, "password confirmation failed")
	ErrNotMessageOwner  = classified(ErrForbidden, "message belongs to another user")
	ErrUserNotFound     = classified(ErrNotFound, "user not found")
	ErrMessageNotFound  = classified(ErrNotFound, "message not found")
)

type classError struct {
	class error
	msg   string
}

func classified(class error, msg string) error { return &classError{class: class, msg: msg} }

func (e *classError) Error() string { return e.msg }

func (e *classError) Unwrap() error { return e.class }

// ConflictField 返回冲突字段名（username/email），非冲突错误返回空串
func ConflictField(err error) string {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return "username"
	case errors.Is(err, ErrEmailTaken):
		return "email"
	}
	return ""
}

// invalid 将 validator 错误转换为 ErrValidation 类别
func invalid(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(parts, ", "))
}
