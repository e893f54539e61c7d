package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pindada_backend/internal/api/dto"
	"pindada_backend/internal/middleware"
	"pindada_backend/internal/model"
	"pindada_backend/internal/repository"
	"pindada_backend/internal/service"
)

// ==================== 测试辅助 ====================

// fakeWechat 按固定 openid 响应，code 为 "bad" 时模拟微信侧失败
type fakeWechat struct {
	openID string
}

func (f *fakeWechat) Code2Session(ctx context.Context, code string) (*service.WechatSession, error) {
	if code == "bad" {
		return nil, service.ErrWechatGateway
	}
	return &service.WechatSession{OpenID: f.openID, SessionKey: "sk"}, nil
}

func setupAuthTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.UserAuth{}, &model.UserSession{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}

	userSvc := service.NewUserService(repository.NewUserRepository(db), &fakeWechat{openID: "oTEST001"})
	tokenSvc := service.NewTokenService(repository.NewSessionRepository(db), &service.TokenConfig{})
	ctrl := NewAuthController(userSvc, tokenSvc)

	r := gin.New()
	auth := r.Group("/auth")
	{
		auth.POST("/wechat/login", ctrl.WechatLogin)
		auth.POST("/profile", middleware.TokenAuth(tokenSvc), ctrl.UpdateProfile)
	}
	return r, db
}

// ==================== 登录 ====================

func TestAuthController_WechatLogin(t *testing.T) {
	r, db := setupAuthTestRouter(t)

	w := postJSON(r, "/auth/wechat/login", `{"code":"js_code_001","profile":{"nickName":"小明","avatarUrl":"https://a.example.com/1.png"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp dto.WechatLoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Token == "" {
		t.Error("响应缺少 token")
	}
	if resp.UserID == "" {
		t.Error("响应缺少 user_id")
	}
	// 过期时间是毫秒时间戳，应落在 7 天后附近
	want := time.Now().Add(7 * 24 * time.Hour).UnixMilli()
	if resp.ExpiredAt < want-60_000 || resp.ExpiredAt > want+60_000 {
		t.Errorf("expired_at = %d, 偏离预期", resp.ExpiredAt)
	}
	if resp.Profile == nil || resp.Profile.NickName != "小明" {
		t.Errorf("profile = %+v", resp.Profile)
	}

	// 响应里的是内部用户标识而不是自增主键
	var user model.User
	if err := db.First(&user).Error; err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	if resp.UserID != user.UUID {
		t.Errorf("user_id = %q, want %q", resp.UserID, user.UUID)
	}
}

func TestAuthController_WechatLoginErrors(t *testing.T) {
	r, _ := setupAuthTestRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"缺少 code", `{}`, http.StatusBadRequest},
		{"微信侧失败", `{"code":"bad"}`, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postJSON(r, "/auth/wechat/login", tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

// ==================== 登录后更新资料 ====================

func TestAuthController_UpdateProfile(t *testing.T) {
	r, db := setupAuthTestRouter(t)

	w := postJSON(r, "/auth/wechat/login", `{"code":"js_code_001"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("登录失败: %s", w.Body.String())
	}
	var login dto.WechatLoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("解析登录响应失败: %v", err)
	}

	req := postJSONAuth(r, "/auth/profile", `{"nickName":"新昵称"}`, login.Token)
	if req.Code != http.StatusOK {
		t.Fatalf("更新资料失败: status = %d, body = %s", req.Code, req.Body.String())
	}

	var user model.User
	if err := db.First(&user).Error; err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	if user.NickName != "新昵称" {
		t.Errorf("nick_name = %q, want 新昵称", user.NickName)
	}
}

func TestAuthController_UpdateProfileUnauthorized(t *testing.T) {
	r, _ := setupAuthTestRouter(t)

	w := postJSON(r, "/auth/profile", `{"nickName":"新昵称"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
