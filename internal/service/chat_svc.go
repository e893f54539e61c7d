package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pindada_backend/internal/api/dto"
	"pindada_backend/pkg/llm"
)

// ==================== 提示词 ====================

// systemPrompt 固定系统提示词，定义 AI 助手的角色
const systemPrompt = `你是一个专业的礼物推荐顾问，名字叫"品答答"。你的任务是通过对话帮助用户找到最合适的礼物。

你需要：
1. 友好、热情地与用户交流
2. 通过提问收集信息：送礼对象、场合、预算、对方喜好等
3. 根据收集的信息，推荐合适的礼物
4. 回答要简洁、有条理，适当使用emoji让对话更生动
5. 如果用户提供的信息不够，主动追问关键信息

礼物推荐范围包括：
- 数码产品：耳机、手表、键盘等
- 美妆护肤：口红、香水、护肤套装
- 时尚配饰：包包、首饰、围巾
- 运动装备：球鞋、运动包、健身器材
- 创意礼物：定制礼物、手工制品、纪念品

请保持回复简洁（100字以内），不要过于冗长。`

const (
	// 历史消息窗口：最多保留最近 20 条（10 轮对话），更早的直接丢弃
	maxHistoryMessages = 20

	// 流式事件之间的固定间隔，给前端留出渲染时间
	streamInterval = 10 * time.Millisecond
)

// ==================== 服务 ====================

// ChatService 对话转发服务
type ChatService struct {
	client llm.Client
}

// NewChatService 创建对话服务
func NewChatService(client llm.Client) *ChatService {
	return &ChatService{client: client}
}

// buildMessages 组装补全请求的消息列表，流式和非流式共用同一套规则
func (s *ChatService) buildMessages(message string, history []dto.ChatMessage) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})

	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	messages = append(messages, llm.Message{Role: "user", Content: message})
	return messages
}

// ==================== 非流式对话 ====================

// Chat 非流式对话，失败时不返回任何部分文本
func (s *ChatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	messages := s.buildMessages(req.Message, req.History)

	response, err := s.client.ChatCompletion(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("AI服务异常: %v", err)
	}

	return &dto.ChatResponse{
		Response:    response,
		Suggestions: s.GenerateSuggestions(req.Message),
	}, nil
}

// ==================== 流式对话 ====================

// ChatStream 流式对话
// 每个增量片段作为 content 事件下发，结束时补一个携带全文和建议的 done 事件；
// 上游出错时在流上发 error 事件，连接本身正常收尾。
// emit 返回错误（通常是调用方断开）会立即中止转发并放弃上游调用。
func (s *ChatService) ChatStream(ctx context.Context, req *dto.ChatRequest, emit func(dto.ChatStreamEvent) error) error {
	messages := s.buildMessages(req.Message, req.History)

	var fullText strings.Builder
	var emitErr error

	err := s.client.ChatCompletionStream(ctx, messages, func(delta string) error {
		fullText.WriteString(delta)
		if err := emit(dto.ChatStreamEvent{
			Type:     dto.StreamEventContent,
			Content:  delta,
			FullText: fullText.String(),
		}); err != nil {
			emitErr = err
			return err
		}
		// 限速：调用方断开时立刻退出，不再空转
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(streamInterval):
			return nil
		}
	})

	if err != nil {
		// 调用方已断开就没有下发对象了，直接结束
		if emitErr != nil {
			return emitErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return emit(dto.ChatStreamEvent{
			Type:    dto.StreamEventError,
			Message: fmt.Sprintf("AI服务异常: %v", err),
		})
	}

	return emit(dto.ChatStreamEvent{
		Type:        dto.StreamEventDone,
		FullText:    fullText.String(),
		Suggestions: s.GenerateSuggestions(req.Message),
	})
}

// ==================== 快捷回复建议 ====================

// suggestionRule 关键词组按优先级匹配，命中即返回对应固定建议
type suggestionRule struct {
	keywords    []string
	suggestions []string
}

var suggestionRules = []suggestionRule{
	{[]string{"推荐", "建议"}, []string{"看看具体商品", "预算可以调整", "还有其他选择吗"}},
	{[]string{"预算", "价格"}, []string{"这个价位不错", "能便宜点吗", "我想看看推荐"}},
	{[]string{"男朋友", "女朋友"}, []string{"告诉你更多喜好", "看看推荐吧", "预算500左右"}},
	{[]string{"生日", "纪念日"}, []string{"想要惊喜感", "实用性为主", "看看推荐"}},
}

var defaultSuggestions = []string{"我想看看推荐", "还有其他的吗", "这些不错"}

// GenerateSuggestions 根据用户消息（而非 AI 回复）生成快捷回复
// 纯字符串匹配，无状态
func (s *ChatService) GenerateSuggestions(userMessage string) []string {
	for _, rule := range suggestionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(userMessage, kw) {
				return rule.suggestions
			}
		}
	}
	return defaultSuggestions
}
