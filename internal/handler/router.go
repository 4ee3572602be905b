package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/panier/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig
	AuthMetrics AuthMetrics

	// 買い物アイテム
	ItemService ItemServiceInterface

	// 運用系（nil可）
	HealthChecker HealthChecker
	// MetricsHandler は/metrics用ハンドラー。
	MetricsHandler http.Handler
	// HTTPMetricsMW はレスポンス計測ミドルウェア。
	HTTPMetricsMW func(next http.Handler) http.Handler

	// 静的アセット（埋め込みSPA、nil可）
	WebHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// 認証が必要なルートにはさらに Session → RateLimit(General) → CSRF が適用される。
// 認証エンドポイント（/api/auth/register, /api/auth/login）には
// 未認証リクエスト向けのIP単位レート制限が適用される。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.HTTPMetricsMW != nil {
		r.Use(deps.HTTPMetricsMW)
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.AuthMetrics)
	itemHandler := NewItemHandler(deps.ItemService)

	// --- 認証不要のルート ---

	if deps.HealthChecker != nil {
		r.Get("/health", NewHealthHandler(deps.HealthChecker))
	}

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	r.Route("/api/auth", func(r chi.Router) {
		// ブルートフォース対策のIP単位レート制限
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/register", authHandler.Register)
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/login", authHandler.Login)

		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		r.Route("/api/shopping-items", func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.Post("/", itemHandler.CreateItem)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", itemHandler.UpdateItem)
				r.Delete("/", itemHandler.DeleteItem)
			})
		})
	})

	// --- 静的アセット（SPA） ---
	if deps.WebHandler != nil {
		r.Handle("/*", deps.WebHandler)
	}

	return r
}
