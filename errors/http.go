package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// 详情键常量，供调用方从 Details() 中取值
const (
	DetailKeyStatus = "status" // HTTP 状态码（int）
	DetailKeyDetail = "detail" // 后端补充说明（string）
	DetailKeyFields = "fields" // 字段级验证错误（map[string]string）
	DetailKeyBody   = "body"   // 未识别响应体原文（string）
)

// apiErrorBody 后端统一错误响应体
//
// 后端约定：
//   - 400 携带 fieldErrors（字段名 -> 错误消息）
//   - 其余状态携带 message / detail
type apiErrorBody struct {
	Message     string            `json:"message"`
	Detail      string            `json:"detail"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

// FromHTTPStatus 将 HTTP 响应规范化为 IError
//
// 映射规则：
//   - 400 -> ErrCodeValidation（携带 fieldErrors 详情）
//   - 401 -> ErrCodeUnauthorized
//   - 403 -> ErrCodeForbidden
//   - 404 -> ErrCodeNotFound
//   - 409 -> ErrCodeConflict
//   - 其余 4xx/5xx -> ErrCodeServer
//
// 所有返回值的 Details 均包含 DetailKeyStatus；无法解析的响应体
// 原样存入 DetailKeyBody，不会被吞掉。
func FromHTTPStatus(status int, body []byte) IError {
	parsed := parseBody(body)

	message := parsed.Message
	if message == "" {
		message = http.StatusText(status)
	}

	var err IError
	switch status {
	case http.StatusBadRequest:
		err = NewError(ErrCodeValidation, message)
		if len(parsed.FieldErrors) > 0 {
			err = err.WithContext(DetailKeyFields, parsed.FieldErrors)
		}
	case http.StatusUnauthorized:
		err = NewError(ErrCodeUnauthorized, message)
	case http.StatusForbidden:
		err = NewError(ErrCodeForbidden, message)
	case http.StatusNotFound:
		err = NewError(ErrCodeNotFound, message)
	case http.StatusConflict:
		err = NewError(ErrCodeConflict, message)
	default:
		err = NewError(ErrCodeServer, fmt.Sprintf("服务端错误 (HTTP %d): %s", status, message))
		if parsed.Message == "" && len(body) > 0 {
			err = err.WithContext(DetailKeyBody, string(body))
		}
	}

	err = err.WithContext(DetailKeyStatus, status)
	if parsed.Detail != "" {
		err = err.WithContext(DetailKeyDetail, parsed.Detail)
	}
	return err
}

// NewNetworkError 创建网络错误（请求未得到任何响应）
//
// 超时、连接拒绝、DNS 失败等统一归为网络错误，对上层不可区分。
func NewNetworkError(cause error) IError {
	return WrapError(cause, ErrCodeNetwork, "无法连接到服务端")
}

// StatusOf 从错误详情中提取 HTTP 状态码，无则返回 0
func StatusOf(err error) int {
	details := detailsOf(err)
	if details == nil {
		return 0
	}
	if status, ok := details[DetailKeyStatus].(int); ok {
		return status
	}
	return 0
}

// DetailOf 从错误详情中提取后端补充说明，无则返回空串
func DetailOf(err error) string {
	details := detailsOf(err)
	if details == nil {
		return ""
	}
	if detail, ok := details[DetailKeyDetail].(string); ok {
		return detail
	}
	return ""
}

// FieldErrorsOf 从错误详情中提取字段级验证错误，无则返回 nil
func FieldErrorsOf(err error) map[string]string {
	details := detailsOf(err)
	if details == nil {
		return nil
	}
	if fields, ok := details[DetailKeyFields].(map[string]string); ok {
		return fields
	}
	return nil
}

// detailsOf 提取 IError 的详情映射，非 IError 返回 nil
func detailsOf(err error) map[string]any {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(IError); ok {
		return appErr.Details()
	}
	return nil
}

// parseBody 宽松解析错误响应体，解析失败返回零值
func parseBody(body []byte) apiErrorBody {
	var parsed apiErrorBody
	if len(body) == 0 {
		return parsed
	}
	// 解析失败不视为错误，信息保留在 DetailKeyBody
	_ = json.Unmarshal(body, &parsed)
	return parsed
}
