package handler

import (
	"net/http"
	"strconv"

	"github.com/altee/internal/db"
	"github.com/altee/internal/ratelimit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// gin 上下文中的请求主体键
const (
	contextUserIDKey   = "user_id"
	contextUsernameKey = "username"
	contextRoleKey     = "role"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理登录请求，校验通过后把用户身份写入会话
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "用户名和密码不能为空") {
		return
	}

	var user db.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	session := sessions.Default(c)
	session.Set(contextUserIDKey, user.ID)
	session.Set(contextUsernameKey, user.Username)
	session.Set(contextRoleKey, user.Role)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Logout 处理登出请求
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "已退出登录"})
}

// AuthRequired 校验会话中存在已认证主体，并把身份写入请求上下文
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(contextUserIDKey)
		role := session.Get(contextRoleKey)
		if userID == nil || role == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Set(contextRoleKey, role)
		if username := session.Get(contextUsernameKey); username != nil {
			c.Set(contextUsernameKey, username)
		}
		c.Next()
	}
}

// AdminRequired 校验当前主体为管理员，必须位于 AuthRequired 之后
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(contextRoleKey)
		if !exists {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		if roleStr, ok := role.(string); !ok || roleStr != db.RoleAdmin {
			respondError(c, http.StatusForbidden, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimit 按当前主体限流，未认证请求退化为按客户端 IP
// 仅为滥用防护，不承担正确性职责
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := currentUserID(c); ok {
			key = "user:" + strconv.FormatUint(uint64(userID), 10)
		}
		if !limiter.Allow(key) {
			respondError(c, http.StatusTooManyRequests, "请求过于频繁，请稍后重试")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUserID 从请求上下文读取认证主体的用户 ID
func currentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok
}

// isAdmin 判断当前主体是否为管理员
func isAdmin(c *gin.Context) bool {
	raw, exists := c.Get(contextRoleKey)
	if !exists {
		return false
	}
	role, ok := raw.(string)
	return ok && role == db.RoleAdmin
}
