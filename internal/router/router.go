package router

import (
	"github.com/altee/internal/config"
	"github.com/altee/internal/db"
	"github.com/altee/internal/handler"
	"github.com/altee/internal/ratelimit"
	"github.com/altee/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("altee_session", store))

	// 上传文件的静态访问路径
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	// 限流器进程内只构造一次，按引用注入
	limiter := ratelimit.New(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	storage := service.NewStorageService(cfg.UploadDir, cfg.UploadURLPath)
	api := handler.NewAPI(db.DB, storage, limiter)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 公开主页数据，无需登录
	r.GET("/u/:username/links", api.GetPublicLinks)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/login", handler.RateLimit(limiter), api.Login)

		// 需要认证的路由
		auth := apiGroup.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.POST("/logout", api.Logout)

			// 任何已登录用户可读的目录视图
			auth.GET("/services", api.GetServices)
			auth.GET("/services/:id/icons", api.GetServiceIcons)
			auth.GET("/colors", api.GetColors)

			// 用户自有链接，写操作按主体限流
			owner := auth.Group("")
			owner.Use(handler.RateLimit(limiter))
			{
				owner.GET("/links", api.GetLinks)
				owner.POST("/links", api.CreateLink)
				owner.PUT("/links/order", api.ReorderLinks)
				owner.PUT("/links/:id", api.UpdateLink)
				owner.DELETE("/links/:id", api.DeleteLink)
				owner.POST("/uploads/icon", api.UploadLinkIcon)
			}

			// 管理员目录管理
			admin := auth.Group("")
			admin.Use(handler.AdminRequired())
			{
				admin.POST("/services", api.CreateService)
				admin.PUT("/services/order", api.ReorderServices)
				admin.PUT("/services/:id", api.UpdateService)
				admin.DELETE("/services/:id", api.DeleteService)
				admin.PUT("/services/:id/icons/order", api.ReorderServiceIcons)

				admin.GET("/icons", api.GetIcons)
				admin.POST("/icons", api.CreateIcon)
				admin.PUT("/icons/:id", api.UpdateIcon)
				admin.DELETE("/icons/:id", api.DeleteIcon)

				admin.POST("/colors", api.CreateColor)
				admin.PUT("/colors/order", api.ReorderColors)
				admin.PUT("/colors/:id", api.UpdateColor)
				admin.DELETE("/colors/:id", api.DeleteColor)
			}
		}
	}

	return r
}
