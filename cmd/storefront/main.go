package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/efojunior25/Notrya-Catalogo/internal/admin"
	"github.com/efojunior25/Notrya-Catalogo/internal/apiclient"
	"github.com/efojunior25/Notrya-Catalogo/internal/auth"
	"github.com/efojunior25/Notrya-Catalogo/internal/cart"
	"github.com/efojunior25/Notrya-Catalogo/internal/catalog"
	"github.com/efojunior25/Notrya-Catalogo/internal/checkout"
	"github.com/efojunior25/Notrya-Catalogo/internal/config"
	h "github.com/efojunior25/Notrya-Catalogo/internal/http"
	"github.com/efojunior25/Notrya-Catalogo/internal/logger"
	"github.com/efojunior25/Notrya-Catalogo/internal/persistence"
	"github.com/efojunior25/Notrya-Catalogo/internal/receipts"
	"github.com/efojunior25/Notrya-Catalogo/internal/storage/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// Receipts always live in the local SQLite file, whatever backs the session.
	db, err := sqlite.OpenAndMigrate(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open local database: %v", err)
	}
	defer db.Close()

	store, closeStore, err := openStore(cfg, db)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer closeStore()

	api := apiclient.New(cfg.APIBaseURL, cfg.RequestTimeout)

	authService := auth.NewService(api, store)
	api.SetTokenSource(authService)
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	authService.Restore(startupCtx)
	if authService.Token() != "" {
		if err := authService.Validate(startupCtx); err != nil {
			log.WithError(err).Info("stored session is no longer valid")
		}
	}

	catalogClient := catalog.NewClient(api, cfg.PageSize, cfg.MaxPageSize)
	browser := catalog.NewBrowser(catalogClient, catalog.NewDebouncer(cfg.SearchDebounce), cfg.PageSize, cfg.RequestTimeout)

	cartStorage := persistence.NewCartStorage(store, cfg.CartStorageKey, cfg.RequestTimeout)
	controller := cart.NewController(cartStorage)
	state := controller.Hydrate(startupCtx)
	cancelStartup()
	log.WithField("items", len(state.Items)).Info("cart restored")

	receiptRepo := receipts.NewRepository(db)
	orchestrator := checkout.NewOrchestrator(controller, checkout.NewOrdersClient(api), receiptRepo)

	router := h.NewRouter(h.Handlers{
		Cart:     h.NewCartHandler(controller, catalogClient, cfg.RequestTimeout),
		Checkout: h.NewCheckoutHandler(orchestrator, receiptRepo, cfg.RequestTimeout),
		Products: h.NewProductHandler(catalogClient, browser, cfg.RequestTimeout),
		Auth:     h.NewAuthHandler(authService, cfg.RequestTimeout),
		Admin:    h.NewAdminHandler(admin.NewClient(api), cfg.RequestTimeout),
		Authn:    authService,
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":    cfg.HTTPPort,
			"backend": cfg.APIBaseURL,
			"storage": cfg.StorageBackend,
		}).Info("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	log.Info("server exited")
}

// openStore selects the key/value store for the session (cart and auth).
func openStore(cfg *config.Config, db *sql.DB) (persistence.Store, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, err
		}
		return persistence.NewRedisStore(client, cfg.RedisKeyPrefix, cfg.RedisTTL), func() { client.Close() }, nil

	case config.BackendMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mdb, err := persistence.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, noop, err
		}
		store := persistence.NewMongoStore(mdb)
		if err := store.CreateIndexes(ctx); err != nil {
			log.WithError(err).Warn("failed to create mongo indexes")
		}
		return store, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mdb.Client().Disconnect(ctx); err != nil {
				log.WithError(err).Warn("failed to disconnect from mongo")
			}
		}, nil

	case config.BackendMemory:
		return persistence.NewMemoryStore(), noop, nil

	default:
		return persistence.NewSQLiteStore(db), noop, nil
	}
}
