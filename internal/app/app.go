// Package app は設定から DB・各サービス・HTTP ルーターを組み立てる。
package app

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "CHORUS-backend/docs"
	"CHORUS-backend/internal/attendance"
	"CHORUS-backend/internal/importer"
	"CHORUS-backend/internal/platform/auth"
	"CHORUS-backend/internal/platform/config"
	"CHORUS-backend/internal/platform/db"
	"CHORUS-backend/internal/platform/httpx"
	"CHORUS-backend/internal/report"
	"CHORUS-backend/internal/roster"
	"CHORUS-backend/internal/stats"
	"CHORUS-backend/internal/status"
)

// 開発用の固定鍵（release では config で必須）
const devJWTSecret = "chorus-dev-secret"

type App struct {
	Cfg     *config.Config
	Log     *zap.Logger
	DB      *sql.DB
	Dialect db.Dialect

	Roster   *roster.Service
	Ledger   *attendance.Service
	Importer *importer.Service
	Stats    *stats.Aggregator
	Reports  *report.Composer
	Auth     *auth.Service
}

// New: 接続 → マイグレーション → サービス組み立て
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	conn, d, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn, d, log); err != nil {
		conn.Close()
		return nil, err
	}
	a, err := Wire(cfg, log, conn, d)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return a, nil
}

// Wire: 既に開いている接続からサービスを組み立てる（テストはインメモリ SQLite を渡す）
func Wire(cfg *config.Config, log *zap.Logger, conn *sql.DB, d db.Dialect) (*App, error) {
	table := status.Default()
	if cfg.Import.StatusTokens != "" {
		t, err := status.LoadFile(cfg.Import.StatusTokens)
		if err != nil {
			return nil, fmt.Errorf("status tokens: %w", err)
		}
		table = t
	}
	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		log.Warn("auth.jwt_secret is empty; using the development key")
		secret = []byte(devJWTSecret)
	}

	rs := roster.NewService(roster.NewStore(conn), log.Named("roster"))
	ledger := attendance.NewService(conn, d, rs, log.Named("attendance"))
	imp := importer.NewService(rs, ledger, importer.NewStore(conn), importer.Options{
		Table:     table,
		PartMatch: importer.MatchMode(cfg.Import.RowPartMatch),
	}, log.Named("importer"))
	agg := stats.NewAggregator(rs, ledger, log.Named("stats"))

	return &App{
		Cfg:      cfg,
		Log:      log,
		DB:       conn,
		Dialect:  d,
		Roster:   rs,
		Ledger:   ledger,
		Importer: imp,
		Stats:    agg,
		Reports:  report.NewComposer(agg, rs, ledger, log.Named("report")),
		Auth:     auth.NewService(auth.NewStore(conn), secret, cfg.Auth.TokenTTL, log.Named("auth")),
	}, nil
}

func (a *App) Close() error { return a.DB.Close() }

// Router: /api/v1 以下に各 feature を登録する
func (a *App) Router() *gin.Engine {
	if a.Cfg.Mode == config.ModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.AccessLog(a.Log.Named("http")), httpx.Recovery(a.Log))
	_ = r.SetTrustedProxies(nil)

	if a.Cfg.Mode == config.ModeDev {
		// CORS（開発中のみ必要）
		origins := a.Cfg.Server.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpx.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", httpx.HeaderRequestID},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	read, write := auth.Reader(a.Auth), auth.Writer(a.Auth)
	auth.RegisterRoutes(api, a.Auth)
	roster.RegisterRoutes(api, a.Roster, read, write)
	attendance.RegisterRoutes(api, a.Ledger, write...)
	importer.RegisterRoutes(api, a.Importer, read, write)
	report.RegisterRoutes(api, a.Reports)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "no such route"}})
	})
	return r
}
