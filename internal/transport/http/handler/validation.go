package handler

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"user-service/internal/domain"
)

var setupOnce sync.Once

// setupValidator 在 gin 默认校验器上注册 notblank，并让错误字段名取 json/form tag
func setupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(fieldName)
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// 按 字段.tag 定制的消息优先于按 tag 的通用消息
var fieldMessages = map[string]string{
	"country.len":  "country should have two characters",
	"password.max": "password must not exceed 72 bytes",
}

func fieldMessage(fe validator.FieldError) string {
	if m, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	switch fe.Tag() {
	case "notblank", "required":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "len":
		return fmt.Sprintf("size must be %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return "is invalid"
	}
}

// bindError 绑定/校验失败统一转为 KindValidation
func bindError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return domain.Validation(fields)
	}
	msg := err.Error()
	if errors.Is(err, io.EOF) {
		msg = "required request body is missing"
	}
	return &domain.Error{Kind: domain.KindValidation, Msg: msg, Err: err}
}
