package app

import (
	"assetdesk/config"
	"assetdesk/db"
	"assetdesk/session"
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config config.Config

	appSess *session.AppSessionStore
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := config.Load()

	// --- DB: Postgres ---
	dbConn := db.ConnectDB(cfg.DSN())

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	a := &App{
		Router: r, DB: dbConn, RDB: rdb, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}

	BootstrapFirstAdmin(context.Background(), cfg, db.NewRepo(dbConn))
	return a
}

func (a *App) Close() { _ = a.RDB.Close() }
