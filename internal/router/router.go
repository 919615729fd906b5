package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/ruda-paints/internal/authz"
	"github.com/ruda-paints/internal/cache"
	"github.com/ruda-paints/internal/config"
	adminhandlers "github.com/ruda-paints/internal/http/handlers/admin"
	publichandlers "github.com/ruda-paints/internal/http/handlers/public"
	"github.com/ruda-paints/internal/logger"
	"github.com/ruda-paints/internal/provider"

	"github.com/gin-gonic/gin"
)

const (
	apiBase        = "/api"
	adminBase      = apiBase + "/admin"
	adminLoginPath = adminBase + "/login"
	superAdminRole = "super-admin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ruda"
	}
	redisClient := cache.Client()
	publicRule := func(name string) RateLimitRule {
		return RuleFromConfig(fmt.Sprintf("%s:rate:%s", redisPrefix, name), cfg.Security.PublicRateLimit)
	}
	adminLoginRule := RuleFromConfig(fmt.Sprintf("%s:rate:admin_login", redisPrefix), cfg.Security.LoginRateLimit)

	r.Use(RecoveryMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 上传的商品图片
	if c.UploadService != nil {
		r.Static(c.UploadService.URLPrefix(), c.UploadService.Root())
	}

	api := r.Group(apiBase)
	{
		api.GET("/health", publicHandler.Health)
		api.GET("/captcha/image", publicHandler.GetImageCaptcha)

		// 商品目录
		api.GET("/paints", publicHandler.ListPaints)
		api.GET("/paints/search/advanced", publicHandler.SearchPaints)
		api.GET("/paints/featured", publicHandler.FeaturedPaints)
		api.GET("/paints/new-arrivals", publicHandler.NewArrivalPaints)
		api.GET("/paints/on-sale", publicHandler.OnSalePaints)
		api.GET("/paints/:id", publicHandler.GetPaint)
		api.POST("/paints/:id/rating",
			RateLimitMiddleware(redisClient, publicRule("rating"), KeyByIPAndParam("id")),
			publicHandler.RatePaint)

		// 价目表
		api.GET("/price-list", publicHandler.GetPriceList)
		api.GET("/price-list/download", publicHandler.DownloadPriceList)

		api.POST("/contact",
			RateLimitMiddleware(redisClient, publicRule("contact"), KeyByIP),
			publicHandler.SubmitContact)

		newsletter := api.Group("/newsletter")
		{
			newsletter.POST("/subscribe",
				RateLimitMiddleware(redisClient, publicRule("subscribe"), KeyByIPAndJSONField("email")),
				publicHandler.Subscribe)
			newsletter.POST("/unsubscribe", publicHandler.Unsubscribe)
			newsletter.GET("/unsubscribe", publicHandler.UnsubscribeLink)
			newsletter.GET("/check/:email", publicHandler.CheckSubscription)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login",
				RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")),
				adminHandler.AdminLogin)

			authorized := admin.Group("")
			authorized.Use(AdminAuthMiddleware(c.AuthService), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetCurrentAdmin)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)
				authorized.POST("/admins", adminHandler.CreateAdmin)

				// 商品管理
				authorized.POST("/paints", adminHandler.CreatePaint)
				authorized.POST("/paints/bulk-delete", adminHandler.BulkDeletePaints)
				authorized.GET("/paints/stats/summary", adminHandler.GetPaintStatistics)
				authorized.PUT("/paints/:id", adminHandler.UpdatePaint)
				authorized.DELETE("/paints/:id", adminHandler.DeletePaint)
				authorized.POST("/paints/:id/stock", adminHandler.AdjustPaintStock)

				// 客户留言
				authorized.GET("/contacts", adminHandler.ListContacts)
				authorized.GET("/contacts/stats", adminHandler.GetContactStatistics)
				authorized.GET("/contacts/:id", adminHandler.GetContact)
				authorized.PUT("/contacts/:id/status", adminHandler.UpdateContactStatus)
				authorized.PUT("/contacts/:id/respond", adminHandler.RespondContact)
				authorized.DELETE("/contacts/:id", adminHandler.DeleteContact)

				// 邮件订阅
				authorized.GET("/newsletter/subscribers", adminHandler.ListSubscribers)
				authorized.GET("/newsletter/stats", adminHandler.GetNewsletterStatistics)
			}
		}
	}

	if c.AuthzService != nil {
		for _, item := range uncoveredAdminPermissions(r, c.AuthzService) {
			log.Sugar().Warnw("admin_route_without_policy", "method", item.Method, "object", item.Object)
		}
	}

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 按已注册路由生成后台权限清单
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == http.MethodOptions || method == http.MethodHead {
			continue
		}
		if !strings.HasPrefix(item.Path, adminBase+"/") || item.Path == adminLoginPath {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

// uncoveredAdminPermissions 返回超级管理员也无法访问的后台路由，通常意味着漏配了内置策略
func uncoveredAdminPermissions(engine *gin.Engine, authzService *authz.Service) []adminPermissionCatalogItem {
	var missing []adminPermissionCatalogItem
	for _, item := range buildAdminPermissionCatalog(engine) {
		allowed, err := authzService.EnforceRole(superAdminRole, item.Object, item.Method)
		if err != nil || !allowed {
			missing = append(missing, item)
		}
	}
	return missing
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 || segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
