package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"pindada_backend/internal/api/dto"
	"pindada_backend/internal/model"
	"pindada_backend/internal/repository"
)

// ==================== UserService 用户服务 ====================

// WechatExchanger 登录凭证换取身份，便于测试替换
type WechatExchanger interface {
	Code2Session(ctx context.Context, code string) (*WechatSession, error)
}

// UserService 用户服务
type UserService struct {
	userRepo repository.UserRepository
	wechat   WechatExchanger
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository, wechat WechatExchanger) *UserService {
	return &UserService{userRepo: userRepo, wechat: wechat}
}

// ==================== 身份解析 ====================

// ResolveWechatIdentity 微信登录：换取 openid 并落地本地用户
// 首次见到的 openid 创建新用户；此后同一 openid 永远解析到同一用户
func (s *UserService) ResolveWechatIdentity(ctx context.Context, code string, profile *dto.WechatProfile, clientIP string) (*model.User, error) {
	wxSession, err := s.wechat.Code2Session(ctx, code)
	if err != nil {
		return nil, err
	}

	auth, err := s.userRepo.GetAuthBySubject(ctx, model.AuthProviderWechat, wxSession.OpenID)
	if err != nil {
		return nil, fmt.Errorf("查询身份绑定失败: %w", err)
	}

	var user *model.User
	if auth == nil {
		user, err = s.createWechatUser(ctx, wxSession)
		if err != nil {
			return nil, err
		}
	} else {
		user, err = s.userRepo.GetByID(ctx, auth.UserID)
		if err != nil {
			return nil, fmt.Errorf("查询用户失败: %w", err)
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
	}

	// 资料字段：传了才覆盖，缺省保留原值；登录时间和 IP 无条件更新
	now := time.Now()
	fields := map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": clientIP,
	}
	if profile != nil {
		if profile.NickName != nil {
			fields["nick_name"] = *profile.NickName
			user.NickName = *profile.NickName
		}
		if profile.AvatarURL != nil {
			fields["avatar_url"] = *profile.AvatarURL
			user.AvatarURL = *profile.AvatarURL
		}
		if profile.Language != nil {
			merged := mergeProfileAttr(user.Profile, "language", *profile.Language)
			fields["profile"] = merged
			user.Profile = merged
		}
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, fmt.Errorf("更新登录信息失败: %w", err)
	}
	user.LastLoginAt = &now

	return user, nil
}

// createWechatUser 创建新用户和绑定
// 并发首登时唯一索引会让后到的事务失败，失败后重读绑定即可收敛到同一用户
func (s *UserService) createWechatUser(ctx context.Context, wxSession *WechatSession) (*model.User, error) {
	user := &model.User{UUID: uuid.NewString()}
	auth := &model.UserAuth{
		Provider:       model.AuthProviderWechat,
		ProviderUserID: wxSession.OpenID,
		UnionID:        wxSession.UnionID,
		Verified:       true,
	}

	if err := s.userRepo.CreateUserWithAuth(ctx, user, auth); err == nil {
		return user, nil
	}

	// 创建失败：大概率是撞了唯一索引，另一个登录先完成了
	existing, lookupErr := s.userRepo.GetAuthBySubject(ctx, model.AuthProviderWechat, wxSession.OpenID)
	if lookupErr != nil || existing == nil {
		return nil, fmt.Errorf("创建用户失败: openid=%s", wxSession.OpenID)
	}
	winner, err := s.userRepo.GetByID(ctx, existing.UserID)
	if err != nil || winner == nil {
		return nil, fmt.Errorf("创建用户失败: openid=%s", wxSession.OpenID)
	}
	return winner, nil
}

// mergeProfileAttr 往资料 JSON 里写入单个键，已有的其他键原样保留
func mergeProfileAttr(blob datatypes.JSON, key, value string) datatypes.JSON {
	attrs := map[string]interface{}{}
	if len(blob) > 0 {
		_ = json.Unmarshal(blob, &attrs)
	}
	attrs[key] = value
	merged, _ := json.Marshal(attrs)
	return datatypes.JSON(merged)
}

// ==================== 资料更新 ====================

// UpdateProfile 更新用户资料，只写传入的字段
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) error {
	fields := map[string]interface{}{}
	if req.NickName != nil {
		fields["nick_name"] = *req.NickName
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if len(fields) == 0 {
		return nil
	}
	return s.userRepo.UpdateFields(ctx, userID, fields)
}

// GetByID 查询用户
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ==================== 错误定义 ====================

var (
	ErrUserNotFound = errors.New("用户不存在")
)
