package services

import (
	"errors"
	"fmt"
)

// 核心业务错误，控制器通过 errors.Is / errors.As 识别后映射为响应码。
// 这些错误都是预期内的业务结果，不代表程序缺陷。
var (
	// ErrRecordNotFound 引用的记录不存在
	ErrRecordNotFound = errors.New("记录不存在")

	// ErrInvalidState 当前状态不允许该操作
	ErrInvalidState = errors.New("当前状态不允许该操作")

	// ErrAlreadyEntered 重复登记进入，属于 ErrInvalidState 的特化
	ErrAlreadyEntered = fmt.Errorf("已登记进入，请勿重复操作: %w", ErrInvalidState)

	// ErrConflict 条件更新竞争失败，调用方应重新获取记录后重试
	ErrConflict = errors.New("记录已被其他请求修改")
)

// ValidationError 表示请求字段校验失败，字段与原因一一对应
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("参数校验失败: %s %s", e.Field, e.Reason)
}

// NewValidationError 创建一个字段校验错误
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError 判断是否为字段校验错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
