package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pindada_backend/internal/model"
	"pindada_backend/internal/repository"
	"pindada_backend/internal/service"
)

// ==================== 测试辅助 ====================

func setupAuthTestRouter(t *testing.T) (*gin.Engine, *service.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.UserSession{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}

	tokenSvc := service.NewTokenService(repository.NewSessionRepository(db), &service.TokenConfig{})

	r := gin.New()
	r.GET("/protected", TokenAuth(tokenSvc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	return r, tokenSvc
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== 认证 ====================

func TestTokenAuth_ValidToken(t *testing.T) {
	r, tokenSvc := setupAuthTestRouter(t)

	token, _, err := tokenSvc.IssueSession(context.Background(), 42, "127.0.0.1")
	if err != nil {
		t.Fatalf("签发会话失败: %v", err)
	}

	w := doGet(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body = %s", w.Code, w.Body.String())
	}
}

func TestTokenAuth_Rejects(t *testing.T) {
	r, tokenSvc := setupAuthTestRouter(t)

	token, _, err := tokenSvc.IssueSession(context.Background(), 42, "127.0.0.1")
	if err != nil {
		t.Fatalf("签发会话失败: %v", err)
	}
	if err := tokenSvc.Revoke(context.Background(), token); err != nil {
		t.Fatalf("吊销会话失败: %v", err)
	}

	// 各种非法情况都是同样的 401，不区分原因
	tests := []struct {
		name   string
		header string
	}{
		{"未带 Token", ""},
		{"非 Bearer 格式", "Basic dXNlcg=="},
		{"只有 Bearer 没有值", "Bearer"},
		{"未签发过的 Token", "Bearer deadbeefdeadbeefdeadbeefdeadbeef"},
		{"已吊销的 Token", "Bearer " + token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}
