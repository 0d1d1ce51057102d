package main

import (
	"database/sql"
	"os"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MarketLedger/internal/auth"
	"MarketLedger/internal/ledger"
	"MarketLedger/internal/market"
	"MarketLedger/pkg/kit"
)

const defaultFaucet = 1000

func main() {
	_ = godotenv.Load()

	service := "marketd"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")
	jwtSecret := getenv("JWT_SECRET", "dev-secret")
	databaseURL := os.Getenv("DATABASE_URL")
	faucet := getuint(log, "FAUCET_AMOUNT", defaultFaucet)

	var (
		store market.Store
		ldgr  ledger.Ledger
		users auth.UserStore
	)
	if databaseURL != "" {
		db, err := sql.Open("pgx", databaseURL)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		defer func() { _ = db.Close() }()

		store = market.NewPostgresStore(db)
		ldgr = ledger.NewPostgresLedger(db)
		users = auth.NewPostgresStore(db)
		log.Info("using postgres backends")
	} else {
		store = market.NewMemStore()
		ldgr = ledger.NewMemLedger()
		users = auth.NewMemStore()
		log.Info("using in-memory backends")
	}

	registry := prometheus.NewRegistry()
	jwt := auth.NewTokenMaker(jwtSecret)

	mkt := market.NewMarketplace(store, ldgr, log, market.NewMetrics(registry))

	s := &market.Server{
		Market: mkt,
		Ledger: ldgr,
		JWT:    jwt,
		Log:    log,
	}

	authSrv := &auth.Server{
		Log:    log,
		Store:  users,
		JWT:    jwt,
		Ledger: ldgr,
		Faucet: faucet,
	}

	h := market.NewHandler(s, authSrv, market.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       registry,
		MetricsEnabled: getenv("METRICS_ENABLED", "") == "true",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getuint(log *zap.Logger, k string, def uint64) uint64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		log.Warn("bad value, using default", zap.String("var", k), zap.String("value", v))
		return def
	}
	return n
}
