package validation

import (
	"fmt"
	"strings"

	"supplyflow/errors"
)

// IValidator 定义通用验证器接口
type IValidator interface {
	Validate(value any) error
}

// NoopValidator 默认验证器，实现为空操作
type NoopValidator struct{}

// Validate 实现 IValidator 接口
func (NoopValidator) Validate(value any) error {
	return nil
}

// NewValidationError 创建验证错误
func NewValidationError(message string) error {
	return errors.NewError(errors.ErrCodeValidation, message)
}

// ValidateRequired 验证必填字段
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能为空", fieldName))
	}
	return nil
}

// ValidateStringLength 验证字符串长度
func ValidateStringLength(value, fieldName string, min, max int) error {
	length := len(value)
	if length < min {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s长度不能少于%d个字符（当前%d）", fieldName, min, length))
	}
	if max > 0 && length > max {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s长度不能超过%d个字符（当前%d）", fieldName, max, length))
	}
	return nil
}

// ValidatePositive 验证正数
func ValidatePositive(value int, fieldName string) error {
	if value <= 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s必须为正数（当前%d）", fieldName, value))
	}
	return nil
}

// ValidateNonNegative 验证非负数
func ValidateNonNegative(value int, fieldName string) error {
	if value < 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能为负数（当前%d）", fieldName, value))
	}
	return nil
}

// ValidateEnum 验证枚举值
func ValidateEnum(value, fieldName string, validValues []string) error {
	for _, valid := range validValues {
		if value == valid {
			return nil
		}
	}
	return errors.NewError(errors.ErrCodeValidation,
		fmt.Sprintf("%s的值无效，必须是以下之一: %v", fieldName, validValues))
}

// ValidatePageParams 验证分页参数
//
// 与后端分页约定一致：页码从 0 开始，每页大小为正数。
func ValidatePageParams(page, pageSize int) error {
	if page < 0 {
		return errors.NewError(errors.ErrCodeValidation, "页码不能为负数")
	}
	if pageSize <= 0 {
		return errors.NewError(errors.ErrCodeValidation, "每页大小必须大于0")
	}
	return nil
}

// ValidateID 验证ID有效性
func ValidateID(id int64, fieldName string) error {
	if id <= 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s必须为正整数", fieldName))
	}
	return nil
}
