package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Syarif-H55/smart-cashier/internal/config"
	"github.com/Syarif-H55/smart-cashier/internal/handler"
	"github.com/Syarif-H55/smart-cashier/internal/infra/cache"
	"github.com/Syarif-H55/smart-cashier/internal/infra/db"
	infraRepo "github.com/Syarif-H55/smart-cashier/internal/infra/repository"
	"github.com/Syarif-H55/smart-cashier/internal/repository"
	"github.com/Syarif-H55/smart-cashier/internal/server"
	"github.com/Syarif-H55/smart-cashier/internal/usecase"
	auth "github.com/Syarif-H55/smart-cashier/internal/usecase/auth_usecase"
	"github.com/Syarif-H55/smart-cashier/internal/validator"

	"github.com/labstack/gommon/log"
)

func main() {
	logger := log.New("smart-cashier")
	logger.SetHeader(`${time_rfc3339} ${level} ${short_file}:${line}`)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(parseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		logger.Fatalf("db: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatalf("db: %v", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("migrate: %v", err)
	}
	if cfg.Seed {
		if err := db.Seed(ctx, gormDB, cfg.SeedAdminPassword); err != nil {
			logger.Fatalf("seed: %v", err)
		}
		logger.Info("seed data ensured")
	}

	//Repository（GORM実装）生成
	var menuRepo repository.MenuRepository = infraRepo.NewMenuGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txRepo := infraRepo.NewTransactionGormRepository(gormDB)
	itemRepo := infraRepo.NewTransactionItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Redisがあればキャッシュとイベント配信を使う
	var events usecase.EventPublisher = usecase.NoopPublisher{}
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		menuRepo = cache.NewCachedMenuRepository(menuRepo, rdb, logger)
		events = cache.NewRedisEventPublisher(rdb)
		logger.Infof("redis enabled at %s", cfg.Redis.Addr())
	}

	//Usecase生成
	clock := usecase.SystemClock{}
	menuUC := usecase.NewMenuUsecase(menuRepo, auditRepo, validator.NewMenuValidator(), clock, logger)
	txUC := usecase.NewTransactionUsecase(
		txManager,
		txRepo,
		itemRepo,
		menuUC,
		validator.NewTransactionValidator(),
		usecase.NewRandomCodeGenerator(),
		clock,
		events,
		logger,
	)

	authValidator := validator.NewAuthValidator()
	loginUC := auth.NewLoginUsecase(
		userRepo,
		authValidator,
		auth.NewBcryptPasswordVerifier(),
		auth.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL),
		clock,
		logger,
	)
	registerUC := auth.NewRegisterUserUsecase(userRepo, authValidator, auth.NewBcryptPasswordHasher(12), logger)

	//Handler生成
	e, err := server.New(cfg, logger, userRepo, server.Handlers{
		Auth:        handler.NewAuthHandler(registerUC, loginUC),
		Menu:        handler.NewMenuHandler(menuUC),
		Transaction: handler.NewTransactionHandler(txUC),
		AuditLog:    handler.NewAuditLogHandler(menuUC),
		Health:      handler.NewHealthHandler(sqlDB),
	})
	if err != nil {
		logger.Fatalf("server: %v", err)
	}

	addr := cfg.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}
	logger.Infof("listening on %s", addr)

	if err := server.Start(ctx, e, addr); err != nil {
		logger.Fatalf("server: %v", err)
	}
	logger.Info("server stopped")
}

func parseLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
