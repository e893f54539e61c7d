package config

import (
	"fmt"
	"os"
	"strconv"
)

// ==================== 配置定义 ====================

// Config 进程级配置，启动时构建一次，显式注入各服务，不使用全局变量
type Config struct {
	// 服务
	ServerPort string
	Version    string

	// 数据库
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// 通义千问 (DashScope OpenAI 兼容模式)
	DashScopeAPIKey string
	ChatModel       string

	// 微信小程序
	WechatAppID  string
	WechatSecret string

	// 会话有效期（天）
	AccessTokenDays  int
	RefreshTokenDays int
}

// Load 从环境变量加载配置
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Version:    "1.0.0",

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "pindada"),

		DashScopeAPIKey: getEnv("DASHSCOPE_API_KEY", ""),
		ChatModel:       getEnv("CHAT_MODEL", "qwen-max"),

		WechatAppID:  getEnv("WECHAT_APPID", ""),
		WechatSecret: getEnv("WECHAT_SECRET", ""),

		AccessTokenDays:  getEnvInt("ACCESS_TOKEN_DAYS", 7),
		RefreshTokenDays: getEnvInt("REFRESH_TOKEN_DAYS", 30),
	}
}

// DSN 拼接 Postgres 连接串
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
