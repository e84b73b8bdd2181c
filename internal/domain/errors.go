package domain

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAlreadyExists
	KindNotFound
	KindSerialization
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_FAILED"
	case KindAlreadyExists:
		return "ALREADY_EXISTS"
	case KindNotFound:
		return "NOT_FOUND"
	case KindSerialization:
		return "SERIALIZATION_FAILED"
	default:
		return "UNEXPECTED"
	}
}

// Error 业务错误；Fields 仅在 KindValidation 时使用
type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ErrDuplicateKey 存储层唯一索引冲突
var ErrDuplicateKey = errors.New("duplicate key")

func AlreadyExists(nickname string) error {
	return &Error{Kind: KindAlreadyExists, Msg: fmt.Sprintf("user with nick name %s already exist!", nickname)}
}

func EmailAlreadyExists(email string, cause error) error {
	return &Error{Kind: KindAlreadyExists, Msg: fmt.Sprintf("user with email %s already exist!", email), Err: cause}
}

func NotFound(nickname string) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("user with nick name %s not found!", nickname)}
}

func Serialization(err error) error {
	return &Error{Kind: KindSerialization, Msg: "serialize user: " + err.Error(), Err: err}
}

func Validation(fields map[string]string) error {
	return &Error{Kind: KindValidation, Msg: "validation failed", Fields: fields}
}

// KindOf 非 *Error 一律视为 KindUnexpected
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}
