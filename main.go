package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plantco/config"
	"plantco/cron"
	"plantco/database"
	bookingRepo "plantco/database/repository/booking"
	catalogRepo "plantco/database/repository/catalog"
	counterRepo "plantco/database/repository/counter"
	effectsRepo "plantco/database/repository/effects"
	orderRepo "plantco/database/repository/order"
	productRepo "plantco/database/repository/product"
	reviewRepo "plantco/database/repository/review"
	userRepo "plantco/database/repository/user"
	"plantco/handlers"
	"plantco/middleware"
	"plantco/routes"
	"plantco/services/booking"
	"plantco/services/events"
	"plantco/services/inventory"
	"plantco/services/notification"
	"plantco/services/order"
	"plantco/services/payment"
	"plantco/services/review"
	"plantco/services/stats"
	"plantco/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("main: failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.DatabaseName)
	tx := database.NewMongoTransactor(mongoClient)

	// repositories.
	products := productRepo.NewMongoProductRepo(db)
	orders := orderRepo.NewMongoOrderRepo(db)
	bookings := bookingRepo.NewMongoBookingRepo(db)
	users := userRepo.NewMongoUserRepo(db)
	catalog := catalogRepo.NewMongoCatalogRepo(db)
	reviews := reviewRepo.NewMongoReviewRepo(db)
	counters := counterRepo.NewMongoCounterRepo(db)
	effects := effectsRepo.NewMongoEffectRepo(db)
	for _, r := range []indexer{products, orders, bookings, users, catalog, reviews} {
		if err := r.EnsureIndexes(ctx); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.Error(err))
		}
	}

	healthTargets := map[string]utils.Pinger{
		"mongo": utils.PingFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) }),
	}

	// read cache; the service works without it.
	var cache utils.ReadCache
	if redisClient, err := utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB); err != nil {
		logger.Warn("main: redis cache unavailable, reads go to MongoDB", zap.Error(err))
	} else {
		defer redisClient.Close()
		cache = utils.NewRedisCache(redisClient, cfg.CacheTTL)
		healthTargets["redis"] = utils.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	aggregator := &stats.Aggregator{
		Orders:   orders,
		Bookings: bookings,
		Products: products,
		Reviews:  reviews,
		Users:    users,
		Effects:  effects,
		Tx:       tx,
		Logger:   logger,
	}
	var dispatcher stats.Dispatcher
	if cfg.StatsAsync {
		queueOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
		queue := asynq.NewClient(queueOpts)
		defer queue.Close()
		dispatcher = stats.NewAsynqDispatcher(queue, logger)

		worker := cron.NewStatsWorker(queueOpts, aggregator, logger)
		worker.Start(ctx)
		defer worker.Shutdown()
	} else {
		dispatcher = &stats.InlineDispatcher{Aggregator: aggregator, Logger: logger, Backoff: time.Second}
	}

	var refunder payment.Refunder = payment.NopRefunder{}
	if cfg.StripeKey != "" {
		refunder = payment.NewStripeRefunder(cfg.StripeKey, logger)
	} else {
		logger.Warn("main: STRIPE_KEY not set, refunds skip the payment gateway")
	}

	var notifier notification.Notifier = notification.LogNotifier{Logger: logger}
	if cfg.FirebaseCredentialsFile != "" {
		fcm, err := notification.NewMessagingClient(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			logger.Fatal("main: failed to initialize firebase messaging", zap.Error(err))
		}
		n, err := notification.NewFCMNotifier(users, fcm, logger)
		if err != nil {
			logger.Fatal("main: failed to build notifier", zap.Error(err))
		}
		notifier = n
	}

	var publisher events.Publisher = events.NopPublisher{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kp := events.NewKafkaPublisher(events.NewKafkaWriter(brokers, cfg.KafkaTopic), logger)
		defer kp.Close()
		publisher = kp
	}

	// services.
	orderService := &order.DefaultOrderService{
		Orders:       orders,
		Products:     products,
		Ledger:       inventory.NewLedger(products, effects, logger),
		Counter:      counters,
		Tx:           tx,
		Payments:     refunder,
		Stats:        dispatcher,
		Notifier:     notifier,
		Events:       publisher,
		Cache:        cache,
		Logger:       logger,
		NumberPrefix: cfg.OrderNumberPrefix,
	}
	bookingService := &booking.DefaultBookingService{
		Bookings:     bookings,
		Users:        users,
		Catalog:      catalog,
		Counter:      counters,
		Tx:           tx,
		Stats:        dispatcher,
		Notifier:     notifier,
		Events:       publisher,
		Cache:        cache,
		Logger:       logger,
		NumberPrefix: cfg.BookingNumberPrefix,
		CancelWindow: cfg.BookingCancelWindow,
		RejectWindow: cfg.BookingRejectWindow,
	}
	reviewService := &review.Service{
		Reviews:  reviews,
		Products: products,
		Stats:    dispatcher,
		Notifier: notifier,
		Logger:   logger,
	}

	monitor := utils.NewHealthMonitor(logger, 30*time.Second, healthTargets)
	monitor.Start(ctx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))

	routes.RegisterRoutes(router, &handlers.HandlerBundle{
		Signer:            utils.NewTokenSigner(cfg.JWTSecret),
		Health:            monitor,
		Logger:            logger,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		Orders:            handlers.NewOrderHandler(orderService, logger),
		Bookings:          handlers.NewBookingHandler(bookingService, logger),
		Reviews:           handlers.NewReviewHandler(reviewService, logger),
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if d, ok := dispatcher.(*stats.InlineDispatcher); ok {
		d.Wait()
	}
	logger.Info("main: server stopped gracefully")
}
