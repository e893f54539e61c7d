package dto

// ==================== 微信登录 ====================

// WechatProfile 小程序端可选上报的用户资料
// 指针字段用于区分"未传"与"传了空值"，缺省字段保留库中原值
type WechatProfile struct {
	NickName  *string `json:"nickName"`
	AvatarURL *string `json:"avatarUrl"`
	Language  *string `json:"language"`
}

// WechatLoginRequest 微信登录请求
type WechatLoginRequest struct {
	Code    string         `json:"code" binding:"required"`
	Profile *WechatProfile `json:"profile"`
}

// WechatLoginResponse 微信登录响应
// ExpiredAt 为 access token 过期时间的毫秒时间戳
type WechatLoginResponse struct {
	Token     string       `json:"token"`
	UserID    string       `json:"userId"`
	ExpiredAt int64        `json:"expiredAt"`
	Profile   *UserProfile `json:"profile,omitempty"`
}

// UserProfile 对外输出的用户资料
type UserProfile struct {
	NickName  string `json:"nickName"`
	AvatarURL string `json:"avatarUrl"`
}

// ==================== 资料更新 ====================

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	NickName  *string `json:"nickName"`
	AvatarURL *string `json:"avatarUrl"`
}
