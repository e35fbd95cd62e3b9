package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadp "opticash-backend/internal/adapter/http"
	"opticash-backend/internal/adapter/repository/mysql"
	"opticash-backend/internal/config"
	domainLedger "opticash-backend/internal/domain/ledger"
	"opticash-backend/internal/infrastructure/cache"
	"opticash-backend/internal/infrastructure/db"
	"opticash-backend/internal/usecase/category"
	"opticash-backend/internal/usecase/ledger"
	"opticash-backend/internal/usecase/loan"
	"opticash-backend/internal/usecase/payment"
	"opticash-backend/internal/usecase/user"
	"opticash-backend/pkg/logger"
	"opticash-backend/pkg/token"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "opticash-api"})
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "opticash-api"})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	gdb, err := db.OpenGorm(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(ctx, cache.OptionsFrom(cfg))
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("open redis")
		}
	} else {
		log.Warn().Msg("REDIS_ADDR not set, idempotency middleware disabled")
	}

	e := httpadp.NewRouter(deps(cfg, gdb, rdb))

	addr := ":" + cfg.AppPort
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}
	if err := db.Close(gdb); err != nil {
		log.Error().Err(err).Msg("close database")
	}
	log.Info().Msg("bye")
}

func deps(cfg *config.Config, gdb *gorm.DB, rdb *redis.Client) httpadp.RouterDeps {
	users := mysql.NewUserRepository(gdb)
	cats := mysql.NewCategoryRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	records := mysql.NewLedgerRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	return httpadp.RouterDeps{
		Users:          user.NewUsecase(users, tx, tokens, cfg.BcryptCost),
		Categories:     category.NewUsecase(cats),
		Incomes:        ledger.NewUsecase(domainLedger.KindIncome, records, cats),
		Expenses:       ledger.NewUsecase(domainLedger.KindExpense, records, cats),
		Loans:          loan.NewUsecase(loans, users, tx),
		Payments:       payment.NewUsecase(mysql.NewPaymentRepository(gdb), loans, users, tx),
		Tokens:         tokens,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
		DBPing:         func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Production:     cfg.IsProduction(),
	}
}
