package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pindada_backend/internal/config"
)

type HealthController struct {
	cfg *config.Config
}

func NewHealthController(cfg *config.Config) *HealthController {
	return &HealthController{cfg: cfg}
}

// Root 存活检查
// @Summary 服务存活检查
// @Tags Health
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (ctrl *HealthController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "AI购物助手后端服务运行中",
		"version": ctrl.cfg.Version,
	})
}

// Health 详细健康检查
// @Summary 详细健康检查，包含 API Key 配置状态
// @Tags Health
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (ctrl *HealthController) Health(c *gin.Context) {
	apiKeyStatus := "not configured"
	if ctrl.cfg.DashScopeAPIKey != "" {
		apiKeyStatus = "configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"api_key": apiKeyStatus,
		"model":   ctrl.cfg.ChatModel,
		"version": ctrl.cfg.Version,
	})
}
