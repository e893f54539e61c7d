package router

import (
	"github.com/gin-gonic/gin"

	"pindada_backend/internal/controller"
	"pindada_backend/internal/middleware"
	"pindada_backend/internal/service"
)

// Controllers 控制器集合
type Controllers struct {
	Health  *controller.HealthController
	Chat    *controller.ChatController
	Auth    *controller.AuthController
	Product *controller.ProductController
}

// SetupRouter 注册所有路由
func SetupRouter(ctrls *Controllers, tokenSvc *service.TokenService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS())

	// 健康检查
	r.GET("/", ctrls.Health.Root)
	r.GET("/health", ctrls.Health.Health)

	// AI 对话
	r.POST("/chat", ctrls.Chat.Chat)
	r.POST("/chat/stream", ctrls.Chat.ChatStream)

	// auth 鉴权组
	auth := r.Group("/auth")
	{
		auth.POST("/wechat/login", ctrls.Auth.WechatLogin)
		auth.POST("/profile", middleware.TokenAuth(tokenSvc), ctrls.Auth.UpdateProfile)
	}

	// product 组
	products := r.Group("/products")
	{
		products.GET("", ctrls.Product.ListProducts)
		products.GET("/featured", ctrls.Product.FeaturedProducts)
		products.GET("/sections", ctrls.Product.ProductSections)
		products.GET("/:id", ctrls.Product.ProductDetail)
	}

	return r
}
