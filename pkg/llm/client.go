package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ==================== 配置 ====================

const (
	// DashScope 的 OpenAI 兼容模式入口
	defaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

	// 固定采样参数：回复要简洁且有一定创造性
	temperature = 0.8
	maxTokens   = 500
)

// Config LLM 客户端配置
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // 留空使用 DashScope 兼容模式地址
}

// ==================== 数据结构 ====================

// Message 单条对话消息，role 为 system/user/assistant
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ==================== 接口定义 ====================

// Client 对话补全客户端
// 流式接口对每个增量片段回调一次 onDelta，回调返回错误则中止转发
type Client interface {
	ChatCompletion(ctx context.Context, messages []Message) (string, error)
	ChatCompletionStream(ctx context.Context, messages []Message, onDelta func(delta string) error) error
}

// ==================== DashScope 实现 ====================

type dashScopeClient struct {
	cfg Config
	// LLM 调用不设固定超时，整段生成可能超过一分钟，
	// 取消统一走请求的 context
	httpClient *http.Client
}

// NewClient 创建 DashScope 客户端
func NewClient(cfg Config) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &dashScopeClient{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// 请求体，stream 为 true 时开启增量输出
type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream,omitempty"`
}

func (c *dashScopeClient) newRequest(ctx context.Context, messages []Message, stream bool) (*http.Request, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("DashScope API Key 未配置")
	}

	body := completionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      stream,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	return req, nil
}

// ChatCompletion 非流式补全，返回完整回复文本
func (c *dashScopeClient) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	req, err := c.newRequest(ctx, messages, false)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求失败: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("DashScope API 错误 [%d]: %s", resp.StatusCode, string(respBody))
	}

	var completionResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &completionResp); err != nil {
		return "", fmt.Errorf("解析响应失败: %v", err)
	}
	if len(completionResp.Choices) == 0 {
		return "", fmt.Errorf("无生成结果")
	}

	return completionResp.Choices[0].Message.Content, nil
}

// ChatCompletionStream 流式补全，逐增量回调
func (c *dashScopeClient) ChatCompletionStream(ctx context.Context, messages []Message, onDelta func(delta string) error) error {
	req, err := c.newRequest(ctx, messages, true)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("DashScope API 错误 [%d]: %s", resp.StatusCode, string(respBody))
	}

	// 上游按 SSE 格式逐行返回 "data: {...}"，以 [DONE] 结束
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			return nil
		}

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return fmt.Errorf("解析流式响应失败: %v", err)
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}

		if err := onDelta(chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("读取流式响应失败: %v", err)
	}
	return nil
}
