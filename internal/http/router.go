package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/surendar2011/courseApp/internal/auth"
	"github.com/surendar2011/courseApp/internal/cache"
	"github.com/surendar2011/courseApp/internal/config"
	"github.com/surendar2011/courseApp/internal/domain/principal"
	"github.com/surendar2011/courseApp/internal/http/handlers"
	"github.com/surendar2011/courseApp/internal/http/middlewares"
	"github.com/surendar2011/courseApp/internal/notifications"
	"github.com/surendar2011/courseApp/internal/observability"
	"github.com/surendar2011/courseApp/internal/repo/postgres"
)

func NewRouter(
	log *slog.Logger,
	pool *pgxpool.Pool,
	redis *cache.Client,
	prom *observability.Prom,
	promReg *prometheus.Registry,
	cfg config.Config,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware("coursehub-api"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// health

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
		}

		if redis != nil {
			return redis.Ping(ctx)
		}

		return nil
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if promReg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))
	}

	// wire up repositories

	principalsRepo := postgres.NewPrincipalsRepo(pool, prom)
	coursesRepo := postgres.NewCoursesRepo(pool, prom)
	purchasesRepo := postgres.NewPurchasesRepo(pool, prom)

	catalogCache := cache.NewCatalog(redis, time.Duration(cfg.CatalogCacheTTLSeconds)*time.Second)

	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	userJWT := auth.NewManager(principal.RoleUser, cfg.UserJWTSecret, ttl)
	adminJWT := auth.NewManager(principal.RoleAdmin, cfg.AdminJWTSecret, ttl)

	authMW := middlewares.NewAuthMiddleware(userJWT, adminJWT)

	notifier := notifications.NewLogNotifier(log)

	// handlers

	authHandler := handlers.NewAuthHandler(principalsRepo, userJWT, adminJWT)
	coursesHandler := handlers.NewCoursesHandler(coursesRepo, catalogCache)
	catalogHandler := handlers.NewCatalogHandler(coursesRepo, catalogCache, prom)
	purchasesHandler := handlers.NewPurchasesHandler(purchasesRepo, coursesRepo, principalsRepo, notifier)
	profileHandler := handlers.NewProfileHandler(principalsRepo, coursesRepo)

	// rate limits: tight on credential endpoints, loose elsewhere

	authLimiter := middlewares.NewRateLimiter(cfg.RateLimitAuth, cfg.RateLimitWindow)
	apiLimiter := middlewares.NewRateLimiter(cfg.RateLimitAPI, cfg.RateLimitWindow)

	limitAuth := authLimiter.RateLimiterMiddleware(middlewares.KeyByIP)
	limitAPI := apiLimiter.RateLimiterMiddleware(middlewares.KeyByPrincipalOrIP)

	// user routes: the credential lives in a header named "token"

	user := r.Group("/user")
	user.POST("/signup", limitAuth, authHandler.UserSignUp)
	user.POST("/signin", limitAuth, authHandler.UserSignIn)
	user.GET("/profile", authMW.RequireUser(), limitAPI, profileHandler.UserProfile)
	user.GET("/purchases", authMW.RequireUser(), limitAPI, purchasesHandler.ListOwnPurchases)

	// public catalog + user purchase flow

	courseGroup := r.Group("/course")
	courseGroup.GET("/preview", limitAPI, catalogHandler.Preview)
	courseGroup.POST("/purchase", authMW.RequireUser(), limitAPI, purchasesHandler.Purchase)

	// admin routes: the credential rides the Authorization Bearer header

	admin := r.Group("/admin")
	admin.POST("/signup", limitAuth, authHandler.AdminSignUp)
	admin.POST("/signin", limitAuth, authHandler.AdminSignIn)
	admin.GET("/dashboard", authMW.RequireAdmin(), limitAPI, profileHandler.AdminDashboard)
	admin.GET("/courses", authMW.RequireAdmin(), limitAPI, coursesHandler.ListOwnCourses)
	admin.POST("/course", authMW.RequireAdmin(), limitAPI, coursesHandler.CreateCourse)
	admin.PUT("/course", authMW.RequireAdmin(), limitAPI, coursesHandler.UpdateCourse)
	admin.DELETE("/course/:courseId", authMW.RequireAdmin(), limitAPI, coursesHandler.DeleteCourse)

	return r
}
