package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pindada_backend/internal/config"
	"pindada_backend/internal/controller"
	"pindada_backend/internal/model"
	"pindada_backend/internal/repository"
	"pindada_backend/internal/router"
	"pindada_backend/internal/service"
	"pindada_backend/pkg/database"
	"pindada_backend/pkg/llm"
)

func main() {
	// 1. 加载配置
	cfg := config.Load()

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 初始化路由
	r := router.SetupRouter(deps.Controllers, deps.Services.Token)

	// 5. 启动服务
	startServer(r, cfg.ServerPort)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User    repository.UserRepository
	Session repository.SessionRepository
	Product repository.ProductRepository
}

// Services 服务集合
type Services struct {
	Token   *service.TokenService
	Wechat  *service.WechatService
	User    *service.UserService
	Chat    *service.ChatService
	Product *service.ProductService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.DSN(),
		// User
		&model.User{}, &model.UserAuth{}, &model.UserSession{},
		// Catalog
		&model.Brand{}, &model.Product{}, &model.AffiliateLink{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		User:    repository.NewUserRepository(db),
		Session: repository.NewSessionRepository(db),
		Product: repository.NewProductRepository(db),
	}

	// -------- 外部客户端 --------
	llmClient := llm.NewClient(llm.Config{
		APIKey: cfg.DashScopeAPIKey,
		Model:  cfg.ChatModel,
	})
	wechatSvc := service.NewWechatService(&service.WechatConfig{
		AppID:  cfg.WechatAppID,
		Secret: cfg.WechatSecret,
	})

	// -------- 业务服务 --------
	services := &Services{
		Wechat: wechatSvc,
		Token: service.NewTokenService(repos.Session, &service.TokenConfig{
			AccessTokenDays:  cfg.AccessTokenDays,
			RefreshTokenDays: cfg.RefreshTokenDays,
		}),
		User:    service.NewUserService(repos.User, wechatSvc),
		Chat:    service.NewChatService(llmClient),
		Product: service.NewProductService(repos.Product),
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Health:  controller.NewHealthController(cfg),
		Chat:    controller.NewChatController(services.Chat),
		Auth:    controller.NewAuthController(services.User, services.Token),
		Product: controller.NewProductController(services.Product),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务并处理优雅关闭
func startServer(r *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，给流式对话留出收尾时间
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
