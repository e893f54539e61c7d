package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 配置 ====================

// WechatConfig 微信小程序配置
type WechatConfig struct {
	AppID   string
	Secret  string
	BaseURL string // 留空使用微信官方地址，测试时可指向本地
}

// 微信登录凭证校验为同步短请求，给一个较短的固定超时
const wechatTimeout = 8 * time.Second

// ==================== 服务 ====================

// WechatSession code2session 的结果
type WechatSession struct {
	OpenID     string
	UnionID    string
	SessionKey string
}

// WechatService 微信平台接口封装
type WechatService struct {
	cfg    *WechatConfig
	client *resty.Client
}

// NewWechatService 创建微信服务
func NewWechatService(cfg *WechatConfig) *WechatService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.weixin.qq.com"
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(wechatTimeout)
	return &WechatService{cfg: cfg, client: client}
}

// Code2Session 用小程序登录 code 换取 openid
func (s *WechatService) Code2Session(ctx context.Context, code string) (*WechatSession, error) {
	if s.cfg.AppID == "" || s.cfg.Secret == "" {
		return nil, ErrWechatNotConfigured
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"appid":      s.cfg.AppID,
			"secret":     s.cfg.Secret,
			"js_code":    code,
			"grant_type": "authorization_code",
		}).
		Get("/sns/jscode2session")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWechatGateway, err)
	}

	// 微信这个接口的 Content-Type 是 text/plain，需要手动解析
	var result struct {
		OpenID     string `json:"openid"`
		UnionID    string `json:"unionid"`
		SessionKey string `json:"session_key"`
		ErrCode    int    `json:"errcode"`
		ErrMsg     string `json:"errmsg"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: 解析响应失败: %v", ErrWechatGateway, err)
	}
	if result.ErrCode != 0 {
		return nil, fmt.Errorf("%w: [%d] %s", ErrWechatGateway, result.ErrCode, result.ErrMsg)
	}
	if result.OpenID == "" {
		return nil, fmt.Errorf("%w: 响应缺少 openid", ErrWechatGateway)
	}

	return &WechatSession{
		OpenID:     result.OpenID,
		UnionID:    result.UnionID,
		SessionKey: result.SessionKey,
	}, nil
}

// ==================== 错误定义 ====================

var (
	ErrWechatNotConfigured = errors.New("微信小程序凭据未配置")
	ErrWechatGateway       = errors.New("微信登录凭证校验失败")
)
