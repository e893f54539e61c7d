package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 用户 ====================

// User 小程序用户
type User struct {
	BaseModel
	// 对外暴露的稳定标识，避免泄露自增主键
	UUID      string `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	NickName  string `gorm:"size:100" json:"nick_name"`
	AvatarURL string `gorm:"type:text" json:"avatar_url"`

	// 自由格式的扩展资料（性别、地区、语言等）
	Profile datatypes.JSON `gorm:"type:jsonb" json:"profile,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP string     `gorm:"size:45" json:"-"`

	Auths []UserAuth `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string { return "users" }

// ==================== 第三方身份绑定 ====================

// 身份提供方
const (
	AuthProviderWechat = "wechat"
)

// UserAuth 用户与外部身份提供方的绑定关系
// (provider, provider_user_id) 必须全局唯一且解析到唯一用户，
// 唯一性由数据库复合唯一索引保证，防止并发登录创建重复用户
type UserAuth struct {
	BaseModel
	UserID         int64  `gorm:"index;not null" json:"user_id"`
	Provider       string `gorm:"size:32;uniqueIndex:idx_provider_subject;not null" json:"provider"`
	ProviderUserID string `gorm:"size:128;uniqueIndex:idx_provider_subject;not null" json:"provider_user_id"`
	UnionID        string `gorm:"size:128" json:"union_id,omitempty"`
	Verified       bool   `gorm:"default:true" json:"verified"`
}

func (UserAuth) TableName() string { return "user_auths" }

// ==================== 登录会话 ====================

// UserSession 一次已签发的登录会话
// 原始 Token 绝不落库，只保存单向哈希；access 过期时间存于 Metadata
type UserSession struct {
	BaseModel
	UserID           int64  `gorm:"index;not null" json:"user_id"`
	AccessTokenHash  string `gorm:"size:64;uniqueIndex;not null" json:"-"`
	RefreshTokenHash string `gorm:"size:64;not null" json:"-"`

	RefreshExpiresAt time.Time  `json:"refresh_expires_at"`
	LastActiveAt     *time.Time `json:"last_active_at,omitempty"`
	LastActiveIP     string     `gorm:"size:45" json:"-"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`

	// {"access_expires_at": <epoch ms>}
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}

func (UserSession) TableName() string { return "user_sessions" }
