package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"pindada_backend/internal/model"
	"pindada_backend/internal/repository"
	"pindada_backend/pkg/utils"
)

// ==================== 配置 ====================

// TokenConfig 会话有效期配置
type TokenConfig struct {
	AccessTokenDays  int // access token 有效天数，默认 7
	RefreshTokenDays int // 会话外层有效天数，默认 30
}

// tokenLength 随机 Token 长度
const tokenLength = 32

// ==================== 服务 ====================

// TokenService 负责签发和校验不透明 Bearer Token
type TokenService struct {
	sessionRepo repository.SessionRepository
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

// NewTokenService 创建 Token 服务
func NewTokenService(sessionRepo repository.SessionRepository, cfg *TokenConfig) *TokenService {
	if cfg.AccessTokenDays <= 0 {
		cfg.AccessTokenDays = 7
	}
	if cfg.RefreshTokenDays <= 0 {
		cfg.RefreshTokenDays = 30
	}
	return &TokenService{
		sessionRepo: sessionRepo,
		accessTTL:   time.Duration(cfg.AccessTokenDays) * 24 * time.Hour,
		refreshTTL:  time.Duration(cfg.RefreshTokenDays) * 24 * time.Hour,
	}
}

// sessionMetadata 会话元数据，access 过期时间以毫秒时间戳内嵌其中
type sessionMetadata struct {
	AccessExpiresAt int64 `json:"access_expires_at"`
}

// IssueSession 签发新会话
// 返回的原始 access token 只在此处出现一次，库中仅存哈希，之后无法恢复
func (s *TokenService) IssueSession(ctx context.Context, userID int64, clientIP string) (string, time.Time, error) {
	accessToken, err := utils.GenerateRandomString(tokenLength)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("生成 token 失败: %w", err)
	}
	refreshToken, err := utils.GenerateRandomString(tokenLength)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("生成 token 失败: %w", err)
	}

	now := time.Now()
	accessExpiry := now.Add(s.accessTTL)

	meta, _ := json.Marshal(sessionMetadata{
		AccessExpiresAt: accessExpiry.UnixMilli(),
	})

	session := &model.UserSession{
		UserID:           userID,
		AccessTokenHash:  utils.HashToken(accessToken),
		RefreshTokenHash: utils.HashToken(refreshToken),
		RefreshExpiresAt: now.Add(s.refreshTTL),
		LastActiveAt:     &now,
		LastActiveIP:     clientIP,
		Metadata:         datatypes.JSON(meta),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("保存会话失败: %w", err)
	}

	return accessToken, accessExpiry, nil
}

// ResolveUser 校验 Token 并返回用户 ID
// 不存在/已吊销/已过期统一返回 ErrInvalidToken，不区分原因，避免探测
func (s *TokenService) ResolveUser(ctx context.Context, rawToken string) (int64, error) {
	if rawToken == "" {
		return 0, ErrInvalidToken
	}

	session, err := s.sessionRepo.GetByAccessTokenHash(ctx, utils.HashToken(rawToken))
	if err != nil {
		return 0, fmt.Errorf("查询会话失败: %w", err)
	}
	if session == nil || session.RevokedAt != nil {
		return 0, ErrInvalidToken
	}

	var meta sessionMetadata
	if err := json.Unmarshal(session.Metadata, &meta); err != nil || meta.AccessExpiresAt == 0 {
		return 0, ErrInvalidToken
	}
	if time.Now().UnixMilli() > meta.AccessExpiresAt {
		return 0, ErrInvalidToken
	}

	return session.UserID, nil
}

// Revoke 吊销指定 Token 对应的会话，吊销后立即失效
func (s *TokenService) Revoke(ctx context.Context, rawToken string) error {
	session, err := s.sessionRepo.GetByAccessTokenHash(ctx, utils.HashToken(rawToken))
	if err != nil {
		return fmt.Errorf("查询会话失败: %w", err)
	}
	if session == nil {
		return ErrInvalidToken
	}
	return s.sessionRepo.Revoke(ctx, session.ID, time.Now())
}

// ==================== 错误定义 ====================

var (
	ErrInvalidToken = errors.New("登录状态无效或已过期")
)
