package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"p2p-lending-backend/internal/adapter/events"
	httpadp "p2p-lending-backend/internal/adapter/http"
	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/infrastructure/cache"
	"p2p-lending-backend/internal/infrastructure/db"
	"p2p-lending-backend/internal/infrastructure/logging"
	"p2p-lending-backend/internal/usecase/credit"
	"p2p-lending-backend/internal/usecase/interest"
	"p2p-lending-backend/internal/usecase/ledger"
	loanuc "p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/internal/usecase/repayment"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), db.Pool{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.WithError(err).Fatal("mysql: connect failed")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.WithError(err).Fatal("mysql: pool unavailable")
	}
	if cfg.AutoMigrate {
		if err := mysql.AutoMigrate(gdb); err != nil {
			log.WithError(err).Fatal("mysql: migrate failed")
		}
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("redis: connect failed")
	}
	defer rdb.Close()

	loans := mysql.NewLoanRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	store := events.NewStore(mysql.NewNotificationRepository(gdb), log)
	sink := events.Fanout{
		store,
		events.NewRedisPublisher(rdb, cfg.EventsChannel, log),
		events.Logger{Log: log},
	}

	rules := interest.NewTable(mysql.NewInterestRuleRepository(gdb), sink, log)
	lg := ledger.NewLedger(loans, mysql.NewProfitRepository(gdb), log)
	loanUC := loanuc.NewUsecase(loans, users, rules, tx, sink, log)
	repay := repayment.NewProcessor(tx, lg, sink, log)
	creditUC := credit.NewUsecase(users, loans, tx, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.RequestLogger(log), echomw.Recover())

	httpadp.Register(e, httpadp.Handlers{
		Health: httpadp.NewHandler(map[string]httpadp.Probe{
			"mysql": sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Loans:  httpadp.NewLoanHandler(loanUC, repay, log),
		Admin:  httpadp.NewAdminHandler(rules, lg, store, log),
		Credit: httpadp.NewCreditHandler(creditUC, log),
	}, httpadp.RouteConfig{
		JWTSecret: []byte(cfg.JWTSecret),
		Redis:     rdb,
		IdempTTL:  time.Duration(cfg.IdempTTLSecs) * time.Second,
		Log:       log,
	})

	go func() {
		addr := ":" + cfg.AppPort
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
