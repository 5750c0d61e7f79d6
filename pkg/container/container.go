package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"storefront-checkout/internal/config"
	infraCache "storefront-checkout/internal/infrastructure/cache"
	"storefront-checkout/internal/infrastructure/database"
	"storefront-checkout/internal/infrastructure/metrics"
	"storefront-checkout/internal/infrastructure/queue"
	"storefront-checkout/internal/infrastructure/upstream"
	"storefront-checkout/pkg/cache"
	"storefront-checkout/pkg/jwt"

	addressService "storefront-checkout/internal/domains/address/service"
	checkoutHandler "storefront-checkout/internal/domains/checkout/handler"
	checkoutJob "storefront-checkout/internal/domains/checkout/job"
	checkoutRepo "storefront-checkout/internal/domains/checkout/repository"
	checkoutService "storefront-checkout/internal/domains/checkout/service"
	couponJob "storefront-checkout/internal/domains/coupon/job"
	couponService "storefront-checkout/internal/domains/coupon/service"
	dashboardHandler "storefront-checkout/internal/domains/dashboard/handler"
	dashboardService "storefront-checkout/internal/domains/dashboard/service"
	journalRepo "storefront-checkout/internal/domains/journal/repository"
	orderHandler "storefront-checkout/internal/domains/order/handler"
	orderService "storefront-checkout/internal/domains/order/service"
	pricingService "storefront-checkout/internal/domains/pricing/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application (API + worker dùng chung)
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	DB          *database.PostgresDB // nil khi JOURNAL_ENABLED=false
	Cache       cache.Cache          // Redis, hoặc memory khi dev mà Redis down
	JWTManager  *jwt.Manager
	Upstream    *upstream.Client
	AsynqClient *asynq.Client // nil khi reconcile tắt
	QueueClient *queue.Client

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	SessionStore     checkoutRepo.SessionStore
	IdempotencyStore checkoutRepo.IdempotencyStore
	JournalRepo      journalRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	Calculator       *pricingService.Calculator
	Resolver         *addressService.Resolver
	CouponCatalog    *couponService.Catalog
	CouponService    *couponService.CouponService
	SessionService   checkoutService.SessionService
	Sequencer        *checkoutService.Sequencer
	CheckoutService  checkoutService.CheckoutService
	OrderService     orderService.OrderService
	DashboardService *dashboardService.DashboardService

	// ========================================
	// HANDLER LAYER (HTTP + asynq)
	// ========================================
	CheckoutHandler  *checkoutHandler.CheckoutHandler
	OrderHandler     *orderHandler.OrderHandler
	DashboardHandler *dashboardHandler.DashboardHandler

	ReconcileHandler *checkoutJob.ReconcileHandler
	WarmCacheHandler *couponJob.WarmCacheHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo toàn bộ dependency graph
//
// Thứ tự: Config -> Infrastructure (metrics, DB, cache, upstream, queue)
// -> Repositories -> Services -> Handlers
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: METRICS
	// ========================================
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.New(c.Registry)
	log.Println("✅ Metrics registry ready")

	// ========================================
	// STEP 3: INITIALIZE DATABASE (journal)
	// ========================================
	if cfg.Journal.Enabled {
		if err := c.initDatabase(); err != nil {
			return nil, err
		}
	} else {
		log.Println("⏭️  Journal disabled, skipping PostgreSQL")
	}

	// ========================================
	// STEP 4: INITIALIZE CACHE
	// ========================================
	if err := c.initCache(); err != nil {
		return nil, err
	}

	// ========================================
	// STEP 5: AUTH + UPSTREAM + QUEUE
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)
	c.Upstream = upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, cfg.Upstream.PageSize, c.Metrics)
	log.Printf("🌐 Upstream: %s", cfg.Upstream.BaseURL)

	if cfg.Checkout.ReconcileEnabled {
		c.AsynqClient = asynq.NewClient(c.RedisClientOpt())
		c.QueueClient = queue.NewClient(c.AsynqClient, cfg.Checkout.ReconcileMaxRetry)
		log.Println("✅ Reconcile queue enabled")
	}

	// ========================================
	// STEP 6: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 7: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 8: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// RedisClientOpt - kết nối asynq (client, server, scheduler) dùng chung Redis với cache
func (c *Container) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase() error {
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	repo := journalRepo.NewPostgresRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to apply journal schema: %w", err)
	}

	c.DB = db
	c.JournalRepo = repo
	log.Println("✅ Database connected, journal schema ready")
	return nil
}

func (c *Container) initCache() error {
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisCache.Connect(ctx); err != nil {
		// Session + idempotency sống trong cache: production không chạy thiếu Redis
		if c.Config.App.Environment != "development" {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Printf("⚠️  Redis connection failed, using in-memory cache (development only): %v", err)
		c.Cache = cache.NewMemoryCache()
		return nil
	}

	c.Cache = redisCache
	log.Println("✅ Redis connected")
	return nil
}

func (c *Container) initRepositories() {
	cfg := c.Config

	c.SessionStore = checkoutRepo.NewSessionStore(c.Cache, cfg.Checkout.SessionTTL)
	c.IdempotencyStore = checkoutRepo.NewIdempotencyStore(c.Cache, cfg.Checkout.IdempotencyTTL)

	if c.JournalRepo == nil {
		c.JournalRepo = journalRepo.NewNoopRepository()
	}
}

func (c *Container) initServices() {
	cfg := c.Config

	// ----------------------------------------
	// PRICING + ADDRESS (pure)
	// ----------------------------------------
	c.Calculator = pricingService.NewCalculator()
	c.Resolver = addressService.NewResolver()

	// ----------------------------------------
	// COUPON
	// ----------------------------------------
	c.CouponCatalog = couponService.NewCatalog(c.Upstream, c.Cache, cfg.Coupon.CacheTTL)
	c.CouponService = couponService.NewCouponService(c.CouponCatalog, couponService.NewValidator(c.Metrics))

	// ----------------------------------------
	// CHECKOUT
	// ----------------------------------------
	c.SessionService = checkoutService.NewSessionService(
		c.SessionStore,
		c.Upstream,
		c.Upstream,
		c.CouponService,
		c.Calculator,
		c.Resolver,
	)

	// interface nil (không phải typed nil) khi reconcile tắt
	var reconcile checkoutService.ReconcileEnqueuer
	if c.QueueClient != nil {
		reconcile = c.QueueClient
	}

	c.Sequencer = checkoutService.NewSequencer(
		c.Upstream,
		c.CouponService,
		c.Calculator,
		c.Resolver,
		c.JournalRepo,
		reconcile,
		c.Metrics,
		checkoutService.SequencerConfig{
			SuccessRoute:     cfg.Checkout.SuccessRoute,
			BookkeepingLimit: cfg.Checkout.BookkeepingLimit,
		},
	)
	c.CheckoutService = checkoutService.NewCheckoutService(c.SessionStore, c.IdempotencyStore, c.Sequencer)

	// ----------------------------------------
	// ORDER + DASHBOARD
	// ----------------------------------------
	c.OrderService = orderService.NewOrderService(c.Upstream)

	loc := cfg.Dashboard.Location()
	c.DashboardService = dashboardService.NewDashboardService(
		c.Upstream,
		dashboardService.NewAggregator(loc),
		c.Cache,
		cfg.Dashboard.CacheTTL,
	)
}

func (c *Container) initHandlers() {
	c.CheckoutHandler = checkoutHandler.NewCheckoutHandler(c.SessionService, c.CheckoutService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.DashboardHandler = dashboardHandler.NewDashboardHandler(c.DashboardService, c.Config.Dashboard.Location())

	// asynq handlers, chỉ worker register
	c.ReconcileHandler = checkoutJob.NewReconcileHandler(c.JournalRepo, c.Upstream, c.JWTManager, c.Metrics)
	c.WarmCacheHandler = couponJob.NewWarmCacheHandler(c.CouponService, c.JWTManager)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("⚠️  Failed to close database: %v", err)
		} else {
			log.Println("✅ Database connections closed")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
