// Package tokenizer 封装对外部关键词抽取服务的调用。
// 该服务对帖子正文做分词与词形还原，返回按重要度排序的主题词列表，
// 本服务用这些主题词为帖子打标签。
package tokenizer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/content_service/config"
	"github.com/Xushengqwer/content_service/constant"
)

// Client 定义关键词抽取客户端的行为。
// 抽取失败（服务不可用、超时、响应非法）一律返回空列表而不是错误：
// 帖子发布不因标签缺失而失败，这是上层依赖的约定。
type Client interface {
	ExtractTopicTokens(ctx context.Context, text string) []string
}

type httpClient struct {
	baseURL   string
	maxTokens int
	client    *http.Client
	logger    *core.ZapLogger
}

// NewHTTPClient 创建基于 HTTP 的关键词抽取客户端。
// 底层 Transport 使用 otelhttp 包装，调用会出现在分布式追踪里。
func NewHTTPClient(cfg *appConfig.TokenizerConfig, logger *core.ZapLogger) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = constant.MaxTokensPerPost
	}
	return &httpClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		maxTokens: maxTokens,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

type extractRequest struct {
	Text      string `json:"text"`
	MaxTokens int    `json:"max_tokens"`
}

type extractResponse struct {
	Tokens []string `json:"tokens"`
}

// ExtractTopicTokens 调用抽取服务并返回规整后的主题词列表。
// 返回的词已统一小写、去除首尾空白并截断到 maxTokens。
func (c *httpClient) ExtractTopicTokens(ctx context.Context, text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	body, err := json.Marshal(extractRequest{Text: text, MaxTokens: c.maxTokens})
	if err != nil {
		c.logger.Warn("序列化关键词抽取请求失败", zap.Error(err))
		return []string{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("构造关键词抽取请求失败", zap.Error(err))
		return []string{}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("调用关键词抽取服务失败，按零标签处理", zap.Error(err))
		return []string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("关键词抽取服务返回非200状态码，按零标签处理",
			zap.Int("statusCode", resp.StatusCode))
		return []string{}
	}

	var result extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("解析关键词抽取响应失败，按零标签处理", zap.Error(err))
		return []string{}
	}

	return c.normalize(result.Tokens)
}

// normalize 去重、去空白、统一小写并截断
func (c *httpClient) normalize(raw []string) []string {
	tokens := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
		if len(tokens) >= c.maxTokens {
			break
		}
	}
	return tokens
}
