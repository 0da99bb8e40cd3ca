// Package server wires the HTTP routes onto one database session.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "LMS-backend/internal/docs"
	"LMS-backend/internal/library/books"
	"LMS-backend/internal/library/events"
	"LMS-backend/internal/library/fines"
	"LMS-backend/internal/library/members"
	"LMS-backend/internal/library/reports"
	"LMS-backend/internal/library/staff"
	"LMS-backend/internal/platform/auth"
	"LMS-backend/internal/platform/db"
)

const APIPrefix = "/api/v1"

type Options struct {
	Mode string
	// 開発時のフロント（CORS許可先）
	AllowOrigins []string
}

// NewRouter: 参照系は誰でも、更新系は Bearer トークン必須、アカウント管理は admin のみ
func NewRouter(sess *db.Session, authSvc *auth.Service, opt Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if opt.Mode == "dev" {
		origins := opt.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group(APIPrefix)
	write := api.Group("", auth.RequireAuth(authSvc.Secret()))
	admin := write.Group("", auth.RequireRole(auth.RoleAdmin))

	auth.RegisterRoutes(api, admin, authSvc)
	members.RegisterRoutes(api, write, members.NewGateway(sess))
	books.RegisterRoutes(api, write, books.NewGateway(sess))
	staff.RegisterRoutes(api, write, staff.NewGateway(sess))
	fines.RegisterRoutes(api, write, fines.NewService(sess))
	events.RegisterRoutes(api, events.NewService(sess))
	reports.RegisterRoutes(api, reports.NewService(sess))

	return r
}
