package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	accountsrepo "github.com/mariattjoseph2016-code/Masala-storys/internal/accounts/repository"
	cartservice "github.com/mariattjoseph2016-code/Masala-storys/internal/cart/service"
	catalogcache "github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/cache"
	catalogrepo "github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/repository"
	catalogservice "github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/service"
	checkoutservice "github.com/mariattjoseph2016-code/Masala-storys/internal/checkout/service"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/events"
	h "github.com/mariattjoseph2016-code/Masala-storys/internal/http"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/inventory/store"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/orders/journal"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/session"
	"github.com/mariattjoseph2016-code/Masala-storys/pkg/metrics"
)

type Config struct {
	HTTPPort        string
	DBPath          string
	MigrationsPath  string
	RedisAddr       string
	KafkaBrokers    []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "storefront.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := loadConfig()
	log.Info().
		Str("port", cfg.HTTPPort).
		Str("db", cfg.DBPath).
		Str("redis", cfg.RedisAddr).
		Strs("kafka", cfg.KafkaBrokers).
		Msg("starting storefront")

	repo, err := catalogrepo.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	catalog := catalogservice.NewCatalogService(repo, catalogcache.NewRedisCache(redisClient))

	m := metrics.NewStoreMetrics(prometheus.DefaultRegisterer)

	ledger := &store.TimedLedger{
		Inner:   store.NewSqliteLedger(repo.DB()),
		Observe: m.StockCommitTime.Observe,
	}

	sessions := session.NewMemoryStore()
	j := journal.NewJournal(sessions)
	addresses := accountsrepo.NewRepository(repo.DB())

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers...)
	}

	carts := cartservice.NewCartService(sessions, catalog)
	wishlists := cartservice.NewWishlistService(sessions, catalog)
	checkouts := checkoutservice.NewCheckoutService(sessions, catalog, ledger, j, addresses, publisher).
		WithInvalidator(catalog)

	router := h.NewRouter(h.Handlers{
		Cart:     h.NewCartHandler(carts),
		Wishlist: h.NewWishlistHandler(wishlists),
		Checkout: h.NewCheckoutHandler(checkouts, m),
		Orders:   h.NewOrdersHandler(j),
		Address:  h.NewAddressHandler(addresses),
	}, m, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn().Msg("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
