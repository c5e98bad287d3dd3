package app

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"toolcrib/db"
	"toolcrib/logging"
	"toolcrib/session"
)

// Aliases so handlers can write c *app.Ctx / app.H.
type Ctx = gin.Context
type H = gin.H

// App aggregates the process-wide dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    logging.Logger
	Config Config

	sessions *session.Store
}

// Config is read from environment variables.
type Config struct {
	WebOrigin  string
	RedisAddr  string
	RedisPwd   string
	SessionTTL time.Duration
	AdminEmail string // optional bootstrap admin, see Bootstrap
}

func (a *App) Sessions() *session.Store { return a.sessions }

func MustNew() *App {
	cfg := loadConfig()
	logger := logging.NewDefault()

	dbConn, err := db.ConnectDB()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	a := &App{
		Router: r, DB: dbConn, RDB: rdb, Log: logger, Config: cfg,
		sessions: session.NewStore(rdb, cfg.SessionTTL),
	}
	return a
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttl := 24 * time.Hour
	if s := os.Getenv("SESSION_TTL_SECONDS"); s != "" {
		if d, err := time.ParseDuration(s + "s"); err == nil {
			ttl = d
		}
	}

	return Config{
		WebOrigin:  get("WEB_ORIGIN", "http://localhost:3000"),
		RedisAddr:  get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:   os.Getenv("REDIS_PASSWORD"),
		SessionTTL: ttl,
		AdminEmail: strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
	}
}
