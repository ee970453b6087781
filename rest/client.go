// Package rest 提供面向后端集合端点的轻量 HTTP 客户端
//
// 客户端只做网络调用本身：分页查询、按 ID 读取、创建、更新、删除。
// 不做自动重试——失败向上传播，由用户重新触发操作；也不解释业务
// 错误，HTTP 状态到结构化错误的映射集中在 errors 包。
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"supplyflow/errors"
	"supplyflow/logging"
)

// ITokenSource 访问令牌来源（由 auth.Manager 实现）
type ITokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Config 客户端配置
type Config struct {
	// BaseURL 后端 API 根地址，如 "https://api.example.com/api/v1"
	BaseURL string

	// Tokens 为空时不附加 Authorization 头
	Tokens ITokenSource

	// HTTPClient 为空时创建带默认超时的客户端
	HTTPClient *http.Client

	// Timeout 自建 HTTPClient 的超时，默认 15s；
	// 超时以网络错误形式向上传播，与其他不可达场景不可区分
	Timeout time.Duration

	Logger logging.Logger
}

// Client HTTP 客户端
type Client struct {
	baseURL string
	tokens  ITokenSource
	http    *http.Client
	logger  logging.Logger
}

// NewClient 创建客户端
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "rest"))
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  cfg.Tokens,
		http:    cfg.HTTPClient,
		logger:  cfg.Logger,
	}
}

// do 执行一次 HTTP 请求并解码 JSON 响应
//
// 参数:
//   - method/path: 请求方法与相对路径
//   - query: 可为 nil
//   - body: 非 nil 时编码为 JSON 请求体
//   - out: 非 nil 时将 2xx 响应体解码到其中（204 跳过）
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.WrapError(err, errors.ErrCodeInvalidInput, "请求体编码失败")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeInvalidInput, "请求构造失败")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return errors.WrapError(err, errors.ErrCodeUnauthorized, "获取访问令牌失败")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// 无响应：超时、拒绝连接、DNS 失败等统一为网络错误
		return errors.NewNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug(ctx, "request completed",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)))

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return errors.FromHTTPStatus(resp.StatusCode, respBody)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapError(err, errors.ErrCodeServer,
			fmt.Sprintf("响应解码失败 (HTTP %d)", resp.StatusCode))
	}
	return nil
}
