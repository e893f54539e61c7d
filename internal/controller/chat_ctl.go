package controller

import (
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"pindada_backend/internal/api/dto"
	"pindada_backend/internal/service"
)

type ChatController struct {
	chatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// Chat AI 对话（非流式）
// @Summary 接收用户消息和历史对话，返回 AI 回复和建议回复
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body dto.ChatRequest true "对话内容"
// @Success 200 {object} dto.ChatResponse
// @Router /chat [post]
func (ctrl *ChatController) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	resp, err := ctrl.chatService.Chat(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChatStream AI 对话（流式输出）
// @Summary SSE 逐字返回 AI 回复，实现打字机效果
// @Tags Chat
// @Accept json
// @Produce text/event-stream
// @Param body body dto.ChatRequest true "对话内容"
// @Router /chat/stream [post]
func (ctrl *ChatController) ChatStream(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	// 禁用 nginx 缓冲，否则打字机效果会变成一次性输出
	c.Header("X-Accel-Buffering", "no")

	// 错误走带内 error 事件，连接本身正常结束；
	// emit 失败说明调用方已断开，转发随之中止
	_ = ctrl.chatService.ChatStream(c.Request.Context(), &req, func(event dto.ChatStreamEvent) error {
		if err := sse.Encode(c.Writer, sse.Event{Data: event}); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
}
