package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"pindada_backend/internal/model"
)

// ==================== SessionRepository 会话仓库 ====================

// SessionRepository 登录会话仓库接口
type SessionRepository interface {
	Create(ctx context.Context, session *model.UserSession) error
	GetByAccessTokenHash(ctx context.Context, hash string) (*model.UserSession, error)
	Revoke(ctx context.Context, id int64, at time.Time) error
}

// ==================== 实现 ====================

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建会话仓库
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create 持久化新会话
func (r *sessionRepository) Create(ctx context.Context, session *model.UserSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByAccessTokenHash 按 access token 哈希查找会话
func (r *sessionRepository) GetByAccessTokenHash(ctx context.Context, hash string) (*model.UserSession, error) {
	var session model.UserSession
	err := r.db.WithContext(ctx).
		Where("access_token_hash = ?", hash).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Revoke 吊销会话
func (r *sessionRepository) Revoke(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.UserSession{}).
		Where("id = ?", id).
		Update("revoked_at", at).Error
}
