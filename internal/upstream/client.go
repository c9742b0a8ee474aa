package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("upstream config invalid")
	ErrNotFound        = errors.New("upstream resource not found")
	ErrRequestFailed   = errors.New("upstream request failed")
	ErrResponseInvalid = errors.New("upstream response invalid")
)

const (
	defaultTimeout      = 5 * time.Second
	maxResponseBodySize = 1 << 20
)

// 调用结果标签
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "error"
	OutcomeInvalid  = "invalid"
)

// Observer 外部调用观察者（指标）
type Observer interface {
	ObserveUpstream(service, outcome string, duration time.Duration)
}

// Options 外部服务客户端配置
type Options struct {
	BaseURL      string        // 可携带 user:password，作为 Basic 认证
	APIKey       string        // 可选 API Key
	APIKeyHeader string        // API Key 请求头
	Timeout      time.Duration // 单次请求超时
	HTTPClient   *http.Client
	Observer     Observer
}

type client struct {
	service      string
	baseURL      string
	username     string
	password     string
	hasAuth      bool
	apiKey       string
	apiKeyHeader string
	timeout      time.Duration
	http         *http.Client
	observer     Observer
}

func newClient(service string, opts Options) (*client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("%w: %s base url is empty", ErrConfigInvalid, service)
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %s base url is invalid", ErrConfigInvalid, service)
	}
	c := &client{
		service:      service,
		apiKey:       strings.TrimSpace(opts.APIKey),
		apiKeyHeader: strings.TrimSpace(opts.APIKeyHeader),
		timeout:      opts.Timeout,
		http:         opts.HTTPClient,
		observer:     opts.Observer,
	}
	if parsed.User != nil {
		c.username = parsed.User.Username()
		c.password, _ = parsed.User.Password()
		c.hasAuth = true
		parsed.User = nil
	}
	c.baseURL = strings.TrimRight(parsed.String(), "/")
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c, nil
}

// getJSON 发起 GET 请求并解码 JSON 响应
func (c *client) getJSON(ctx context.Context, path string, out interface{}) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveUpstream(c.service, outcomeOf(err), time.Since(started))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Accept", "application/json")
	if c.hasAuth {
		req.SetBasicAuth(c.username, c.password)
	}
	if c.apiKey != "" && c.apiKeyHeader != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, c.service, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		return fmt.Errorf("%w: %s %s", ErrNotFound, c.service, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		return fmt.Errorf("%w: %s %s status %d", ErrRequestFailed, c.service, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("%w: %s read response failed", ErrRequestFailed, c.service)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s decode response failed", ErrResponseInvalid, c.service)
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrResponseInvalid):
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}

// flexibleID 兼容字符串与数字两种 ID 编码
type flexibleID uint

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", raw)
	}
	*id = flexibleID(v)
	return nil
}
