package dto

// ==================== 对话请求/响应 ====================

// ChatMessage 单条历史消息，role 为 user 或 assistant
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest 聊天请求
// history 需要 dive 才会逐条校验，否则非法 role 会被原样拼进上游提示词
type ChatRequest struct {
	Message string        `json:"message" binding:"required"`
	History []ChatMessage `json:"history" binding:"omitempty,dive"`
}

// ChatResponse 非流式聊天响应
type ChatResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

// ==================== 流式事件 ====================

// 流式事件类型，三种取值穷举了事件空间：
// content 增量片段 / done 终止帧 / error 带内错误
const (
	StreamEventContent = "content"
	StreamEventDone    = "done"
	StreamEventError   = "error"
)

// ChatStreamEvent 推送流上的单个事件载荷
type ChatStreamEvent struct {
	Type        string   `json:"type"`
	Content     string   `json:"content,omitempty"`
	FullText    string   `json:"full_text,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Message     string   `json:"message,omitempty"`
}
