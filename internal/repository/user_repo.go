package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pindada_backend/internal/model"
)

// ==================== UserRepository 用户仓库 ====================

// UserRepository 用户及第三方身份绑定仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error

	// 身份绑定
	GetAuthBySubject(ctx context.Context, provider, providerUserID string) (*model.UserAuth, error)
	CreateUserWithAuth(ctx context.Context, user *model.User, auth *model.UserAuth) error
}

// ==================== 实现 ====================

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据 ID 获取用户
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateFields 更新指定字段
func (r *userRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// GetAuthBySubject 按 (provider, provider_user_id) 查找身份绑定
func (r *userRepository) GetAuthBySubject(ctx context.Context, provider, providerUserID string) (*model.UserAuth, error) {
	var auth model.UserAuth
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&auth).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

// CreateUserWithAuth 在同一事务内创建用户和身份绑定
// (provider, provider_user_id) 的唯一索引会让并发首登中后到的一方报唯一冲突
func (r *userRepository) CreateUserWithAuth(ctx context.Context, user *model.User, auth *model.UserAuth) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		auth.UserID = user.ID
		return tx.Create(auth).Error
	})
}
