package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== 测试辅助 ====================

// newWechatTestServer 模拟微信 jscode2session 接口
// 微信线上返回的 Content-Type 是 text/plain，这里保持一致
func newWechatTestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sns/jscode2session", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "wx_test_appid", q.Get("appid"))
		assert.Equal(t, "authorization_code", q.Get("grant_type"))
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(body))
	}))
}

func newTestWechatService(baseURL string) *WechatService {
	return NewWechatService(&WechatConfig{
		AppID:   "wx_test_appid",
		Secret:  "test_secret",
		BaseURL: baseURL,
	})
}

// ==================== 凭证校验 ====================

func TestWechatService_Code2Session(t *testing.T) {
	srv := newWechatTestServer(t, `{"openid":"oABC123","unionid":"uXYZ789","session_key":"sk_demo"}`)
	defer srv.Close()

	svc := newTestWechatService(srv.URL)
	session, err := svc.Code2Session(context.Background(), "js_code_001")
	require.NoError(t, err)

	assert.Equal(t, "oABC123", session.OpenID)
	assert.Equal(t, "uXYZ789", session.UnionID)
	assert.Equal(t, "sk_demo", session.SessionKey)
}

func TestWechatService_Code2SessionFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"微信返回错误码", `{"errcode":40029,"errmsg":"invalid code"}`},
		{"响应缺少 openid", `{"session_key":"sk_demo"}`},
		{"非 JSON 响应", `<html>gateway error</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newWechatTestServer(t, tt.body)
			defer srv.Close()

			svc := newTestWechatService(srv.URL)
			_, err := svc.Code2Session(context.Background(), "bad_code")
			assert.ErrorIs(t, err, ErrWechatGateway)
		})
	}
}

func TestWechatService_Code2SessionNotConfigured(t *testing.T) {
	svc := NewWechatService(&WechatConfig{})
	_, err := svc.Code2Session(context.Background(), "js_code_001")
	assert.ErrorIs(t, err, ErrWechatNotConfigured)
}
