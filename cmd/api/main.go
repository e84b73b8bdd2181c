package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"user-service/internal/core/cache"
	"user-service/internal/core/config"
	"user-service/internal/core/database"
	"user-service/internal/core/logger"
	"user-service/internal/core/notify"
	"user-service/internal/core/server"
	"user-service/internal/domain"
	"user-service/internal/feature/user"
	"user-service/internal/repo"
	"user-service/internal/transport/http/handler"
	"user-service/internal/transport/http/router"
	"user-service/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))

	var (
		log     *zap.Logger
		cleanup func()
	)
	if cfg.Log.File.Enable {
		log, cleanup = logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		})
	} else {
		log, cleanup = logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	userRepo := repo.NewUserRepo(db)
	if cfg.DB.AutoMigrate {
		if err := userRepo.Migrate(context.Background()); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	checks := map[string]router.HealthCheck{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	// 缓存
	var (
		userCache cache.Store[domain.UserView]
		rdb       *cache.Cache
	)
	switch cfg.Cache.Driver {
	case "redis":
		rdb = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx); err != nil {
			log.Warn("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		userCache = cache.NewRedis[domain.UserView](rdb, "user", cfg.Cache.KeyPrefix, time.Duration(cfg.Cache.TTLSec)*time.Second)
		checks["redis"] = rdb.Ping
	case "none":
		userCache = cache.Noop[domain.UserView]{}
	default:
		userCache = cache.NewMemory[domain.UserView]("user")
	}
	log.Info("cache ready", zap.String("driver", cfg.Cache.Driver))

	// 通知
	pub := mustPublisher(cfg, log)
	notifier := user.NewTopicNotifier(pub, log,
		time.Duration(cfg.Notify.TimeoutSec)*time.Second, cfg.Notify.MaxInFlight)

	svc := user.NewService(userRepo, userCache, notifier, utils.BcryptHasher{Cost: cfg.Password.Cost}, log)

	// 路由
	api := router.NewAPIEngine(log, cfg.App.HTTP, handler.NewUserHandler(svc))
	admin := router.NewAdminEngine(log, checks)

	h := cfg.App.HTTP
	apiSrv := server.BuildServer(
		server.Addr(h.Host, h.Port), api,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
	adminSrv := server.BuildServer(server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port), admin,
		5*time.Second, 10*time.Second, 60*time.Second)
	if el, err := logger.ToStdLogger(log, zapcore.ErrorLevel); err == nil {
		apiSrv.ErrorLog, adminSrv.ErrorLog = el, el
	}

	// 启动日志
	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(h.Port)
	log.Info("user api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("users", baseURL+"/v1/users"),
		zap.String("admin", adminSrv.Addr),
	)

	// 异步启动
	for _, srv := range []*http.Server{apiSrv, adminSrv} {
		go func(srv *http.Server) {
			if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("http start FAILED", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}(srv)
	}
	log.Info("user api started SUCCESS")

	// 优雅关闭：先停 HTTP，再等在途通知，最后释放下游连接
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiSrv.Shutdown(ctx); err != nil {
		log.Warn("api shutdown", zap.Error(err))
	}
	if err := adminSrv.Shutdown(ctx); err != nil {
		log.Warn("admin shutdown", zap.Error(err))
	}
	if err := notifier.Close(ctx); err != nil {
		log.Warn("notifier drain", zap.Error(err))
	}
	if err := pub.Close(); err != nil {
		log.Warn("publisher close", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("user api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, l)
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

func mustPublisher(cfg *config.Config, l *zap.Logger) notify.Publisher {
	n := cfg.Notify
	switch n.Driver {
	case "sns":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		p, err := notify.NewSNS(ctx, notify.SNSOptions{
			Endpoint:  n.SNS.Endpoint,
			Region:    n.SNS.Region,
			AccessKey: n.SNS.AccessKey,
			SecretKey: n.SNS.SecretKey,
			Topic:     n.SNS.Topic,
		})
		if err != nil {
			l.Fatal("sns publisher", zap.Error(err))
		}
		l.Info("notify via sns", zap.String("topic", n.SNS.Topic))
		return p
	case "rabbitmq":
		p, err := notify.NewAMQP(notify.AMQPOptions{
			URL:        n.RabbitMQ.URL,
			Exchange:   n.RabbitMQ.Exchange,
			RoutingKey: n.RabbitMQ.RoutingKey,
			Queue:      n.RabbitMQ.Queue,
		})
		if err != nil {
			l.Fatal("rabbitmq publisher", zap.Error(err))
		}
		l.Info("notify via rabbitmq", zap.String("routing_key", n.RabbitMQ.RoutingKey))
		return p
	default:
		l.Info("notify disabled, update events are discarded")
		return notify.Discard{}
	}
}
