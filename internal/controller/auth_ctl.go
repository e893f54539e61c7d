package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pindada_backend/internal/api/dto"
	"pindada_backend/internal/middleware"
	"pindada_backend/internal/service"
)

type AuthController struct {
	userService  *service.UserService
	tokenService *service.TokenService
}

func NewAuthController(userService *service.UserService, tokenService *service.TokenService) *AuthController {
	return &AuthController{
		userService:  userService,
		tokenService: tokenService,
	}
}

// WechatLogin 微信小程序登录
// @Summary 用登录 code 换取会话 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.WechatLoginRequest true "登录参数"
// @Success 200 {object} dto.WechatLoginResponse
// @Router /auth/wechat/login [post]
func (ctrl *AuthController) WechatLogin(c *gin.Context) {
	var req dto.WechatLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := ctrl.userService.ResolveWechatIdentity(ctx, req.Code, req.Profile, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWechatNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		case errors.Is(err, service.ErrWechatGateway):
			c.JSON(http.StatusBadGateway, gin.H{"code": 502, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "登录失败: " + err.Error()})
		}
		return
	}

	token, accessExpiry, err := ctrl.tokenService.IssueSession(ctx, user.ID, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "登录失败: " + err.Error()})
		return
	}

	resp := dto.WechatLoginResponse{
		Token:     token,
		UserID:    user.UUID,
		ExpiredAt: accessExpiry.UnixMilli(),
	}
	if user.NickName != "" || user.AvatarURL != "" {
		resp.Profile = &dto.UserProfile{
			NickName:  user.NickName,
			AvatarURL: user.AvatarURL,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateProfile 更新用户资料
// @Summary 更新昵称/头像，需要 Bearer Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer {token}"
// @Param body body dto.UpdateProfileRequest true "资料字段"
// @Success 200 {object} map[string]interface{}
// @Router /auth/profile [post]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	if err := ctrl.userService.UpdateProfile(c.Request.Context(), userID, &req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
