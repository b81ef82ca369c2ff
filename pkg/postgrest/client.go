// Package postgrest 基于 resty 的 PostgREST（Supabase REST）客户端
package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"tarot-trader/pkg/logger"
)

// 连续错误达到阈值后实例被标记为不健康
const unhealthyThreshold = 3

// ErrNotConfigured 未配置 URL
var ErrNotConfigured = errors.New("postgrest url is not configured")

// APIError 非 2xx 响应
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("postgrest returned status %d: %s", e.Status, e.Body)
}

// Client PostgREST 客户端。读请求带重试，写请求不重试
type Client struct {
	URL    string
	APIKey string

	reader *resty.Client
	writer *resty.Client

	mu         sync.RWMutex
	health     bool
	errorCount int
	lastErr    error
	lastUsed   time.Time
}

// New 创建客户端，url 为空时返回 ErrNotConfigured
func New(url, apiKey string, timeout time.Duration) (*Client, error) {
	if url == "" {
		return nil, ErrNotConfigured
	}
	base := strings.TrimRight(url, "/")

	c := &Client{
		URL:    base,
		APIKey: apiKey,
		health: true,
	}
	c.reader = c.newResty(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second)
	c.writer = c.newResty(timeout)
	return c, nil
}

func (c *Client) newResty(timeout time.Duration) *resty.Client {
	client := resty.New().
		SetBaseURL(c.URL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if c.APIKey != "" {
		client.SetHeader("apikey", c.APIKey).
			SetHeader("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	}
	return client
}

// Select GET /{table}，params 为 PostgREST 查询参数，如 user_id=eq.x
func (c *Client) Select(ctx context.Context, table string, params map[string]string, out interface{}) error {
	resp, err := c.reader.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/" + table)
	if err := c.check(table, resp, err); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

// Insert POST /{table}。prefer 为空时使用 return=minimal
func (c *Client) Insert(ctx context.Context, table string, body interface{}, prefer string) error {
	if prefer == "" {
		prefer = "return=minimal"
	}
	resp, err := c.writer.R().
		SetContext(ctx).
		SetHeader("Prefer", prefer).
		SetBody(body).
		Post("/" + table)
	return c.check(table, resp, err)
}

// Update PATCH /{table}，返回受影响的行数
func (c *Client) Update(ctx context.Context, table string, filters map[string]string, body interface{}) (int, error) {
	resp, err := c.writer.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParams(filters).
		SetBody(body).
		Patch("/" + table)
	if err := c.check(table, resp, err); err != nil {
		return 0, err
	}
	return countRows(resp.Body())
}

// Delete DELETE /{table}，返回删除的行数
func (c *Client) Delete(ctx context.Context, table string, filters map[string]string) (int, error) {
	resp, err := c.writer.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParams(filters).
		Delete("/" + table)
	if err := c.check(table, resp, err); err != nil {
		return 0, err
	}
	return countRows(resp.Body())
}

func countRows(body []byte) (int, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return 0, nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("decode representation: %w", err)
	}
	return len(rows), nil
}

// check 统一处理传输错误和非 2xx 响应，并更新健康状态
func (c *Client) check(table string, resp *resty.Response, err error) error {
	if err == nil && resp.IsError() {
		err = &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}
	if err != nil {
		c.handleError(table, err)
		return err
	}
	c.handleSuccess()
	return nil
}

func (c *Client) handleSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.health = true
	c.errorCount = 0
	c.lastErr = nil
	c.lastUsed = time.Now()
}

func (c *Client) handleError(table string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errorCount++
	c.lastErr = err
	if c.errorCount >= unhealthyThreshold && c.health {
		c.health = false
		logger.WarnString("PostgREST", "Instance", fmt.Sprintf(
			"实例 %s 被标记为不健康: 连续 %d 次错误, 表:%s, 最后错误: %v",
			c.URL, c.errorCount, table, err))
	}
}

// HealthCheck 连续错误达到阈值时返回最后一次错误
func (c *Client) HealthCheck() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.health {
		return nil
	}
	if c.lastErr != nil {
		return fmt.Errorf("postgrest unhealthy: %w", c.lastErr)
	}
	return errors.New("postgrest unhealthy")
}
