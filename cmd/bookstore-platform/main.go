package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/bookstore-platform/docs"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/handlers"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/auth"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/cache"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/config"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/health"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/metrics"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/repositories/memory"
	service "github.com/aaravmahajanofficial/bookstore-platform/internal/services"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/tracing"
	"github.com/aaravmahajanofficial/bookstore-platform/pkg/objectstore"
	"github.com/aaravmahajanofficial/bookstore-platform/pkg/sendgrid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						Bookstore Platform API
//	@version					1.0
//	@description				Catalog, cart and account API for an online bookstore.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	shutdownTracing, err := tracing.Setup(context.Background(), cfg.OTel)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	var repos *repository.Repositories

	if cfg.Database.Driver == "memory" {
		repos, _ = memory.New()

		slog.Warn("⚠️ Using the in-memory store; data is lost on restart")
	} else {
		repos, err = repository.New(cfg)
		if err != nil {
			slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup. Without redis the book cache and the rate limiter are off.
	var (
		bookCache cache.Cache
		limiter   repository.RateLimitRepository
	)

	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		if cfg.Database.Driver != "memory" {
			slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
			os.Exit(1)
		}

		slog.Warn("⚠️ Running without redis", slog.String("error", err.Error()))
	} else {
		bookCache = cache.NewRedisCache(redisClient, cfg.Cache)
		limiter = repository.NewRateLimitRepo(redisClient, cfg.RateConfig)

		defer bookCache.Close()
	}

	// Collaborators
	store, err := objectstore.New(context.Background(), cfg.Storage)
	if err != nil {
		slog.Error("❌ Error configuring object storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	issuer := auth.NewIssuer(cfg.Security.JWTKey, time.Duration(cfg.Security.JWTExpiryHours)*time.Hour)
	emailService := sendgrid.NewEmailService(cfg.SendGrid)
	notifier := service.NewNotificationService(repos.Notification, emailService)
	mediaService := service.NewMediaService(store)

	// Services
	userService := service.NewUserService(repos.User, limiter, issuer, notifier, mediaService, cfg.Security)
	bookService := service.NewBookService(repos.Book, repos.Category, mediaService, bookCache)
	categoryService := service.NewCategoryService(repos.Category, bookCache)
	advertiseService := service.NewAdvertiseService(repos.Advertise, repos.Book, mediaService)
	cartService := service.NewCartService(repos.Cart, repos.Book, notifier, bookCache)
	reportService := service.NewReportService(repos.Book, repos.Cart, repos.User)

	// Handlers
	maxUpload := cfg.Storage.MaxUploadSize
	userHandler := handlers.NewUserHandler(userService, maxUpload)
	bookHandler := handlers.NewBookHandler(bookService, maxUpload)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	advertiseHandler := handlers.NewAdvertiseHandler(advertiseService, maxUpload)
	cartHandler := handlers.NewCartHandler(cartService)
	reportHandler := handlers.NewReportHandler(reportService)
	authMiddleware := middleware.NewAuthMiddleware(issuer)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{Redis: redisClient != nil, Media: store})
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("driver", cfg.Database.Driver), slog.String("version", docs.SwaggerInfo.Version))

	// Setup router
	routerMux := http.NewServeMux()

	routerMux.HandleFunc("GET /api/user/users", authMiddleware.RequireAdmin(userHandler.ListUsers()))
	routerMux.HandleFunc("GET /api/user/user-info", authMiddleware.Authenticate(userHandler.GetUserInfo()))
	routerMux.HandleFunc("POST /api/user/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/user/login", userHandler.Login())
	routerMux.HandleFunc("POST /api/user/forget-password", userHandler.ForgetPassword())
	routerMux.HandleFunc("POST /api/user/resend-key", userHandler.ResendKey())
	routerMux.HandleFunc("POST /api/user/verify-key", userHandler.VerifyKey())
	routerMux.HandleFunc("POST /api/user/confirm-password", userHandler.ConfirmPassword())
	routerMux.HandleFunc("PUT /api/user/edit-user", authMiddleware.Authenticate(userHandler.UpdateProfile()))
	routerMux.HandleFunc("DELETE /api/user/delete-avatar-user", authMiddleware.Authenticate(userHandler.DeleteAvatar()))

	routerMux.HandleFunc("GET /api/book/books", authMiddleware.RequireAdmin(bookHandler.ListBooks()))
	routerMux.HandleFunc("GET /api/book/books/{id}", bookHandler.GetBook())
	routerMux.HandleFunc("GET /api/book/published-books", bookHandler.ListPublishedBooks())
	routerMux.HandleFunc("GET /api/book/published-books/{id}", bookHandler.GetPublishedBook())
	routerMux.HandleFunc("GET /api/book/relative-books/{id}", bookHandler.RelatedBooks())
	routerMux.HandleFunc("POST /api/book/add-book", authMiddleware.RequireAdmin(bookHandler.CreateBook()))
	routerMux.HandleFunc("PUT /api/book/edit-book/{id}", authMiddleware.RequireAdmin(bookHandler.UpdateBook()))
	routerMux.HandleFunc("DELETE /api/book/delete-book/{id}", authMiddleware.RequireAdmin(bookHandler.RemoveBook()))

	routerMux.HandleFunc("GET /api/category/categories", authMiddleware.RequireAdmin(categoryHandler.ListCategories()))
	routerMux.HandleFunc("GET /api/category/categories/{id}", authMiddleware.RequireAdmin(categoryHandler.GetCategory()))
	routerMux.HandleFunc("POST /api/category/add-category", authMiddleware.RequireAdmin(categoryHandler.CreateCategory()))
	routerMux.HandleFunc("PUT /api/category/edit-category/{id}", authMiddleware.RequireAdmin(categoryHandler.UpdateCategory()))
	routerMux.HandleFunc("PATCH /api/category/edit-category-status/{id}", authMiddleware.RequireAdmin(categoryHandler.RemoveCategory()))

	routerMux.HandleFunc("GET /api/advertise/advertises", advertiseHandler.ListAdvertises())
	routerMux.HandleFunc("GET /api/advertise/published-advertises", advertiseHandler.ListPublishedAdvertises())
	routerMux.HandleFunc("GET /api/advertise/advertises/{id}", advertiseHandler.GetAdvertise())
	routerMux.HandleFunc("POST /api/advertise/add-advertise", authMiddleware.RequireAdmin(advertiseHandler.CreateAdvertise()))
	routerMux.HandleFunc("PUT /api/advertise/edit-advertise/{id}", authMiddleware.RequireAdmin(advertiseHandler.UpdateAdvertise()))
	routerMux.HandleFunc("DELETE /api/advertise/delete-advertise/{id}", authMiddleware.RequireAdmin(advertiseHandler.RemoveAdvertise()))

	routerMux.HandleFunc("GET /api/cart/carts", authMiddleware.Authenticate(cartHandler.ListClosedCarts()))
	routerMux.HandleFunc("GET /api/cart/carts/{id}", authMiddleware.Authenticate(cartHandler.GetClosedCart()))
	routerMux.HandleFunc("GET /api/cart/open-cart", authMiddleware.Authenticate(cartHandler.GetOpenCart()))
	routerMux.HandleFunc("PATCH /api/cart/edit-cart/{id}", authMiddleware.Authenticate(cartHandler.Checkout()))
	routerMux.HandleFunc("POST /api/order/add-order", authMiddleware.Authenticate(cartHandler.AddToCart()))
	routerMux.HandleFunc("PUT /api/order/edit-order/{id}", authMiddleware.Authenticate(cartHandler.DecrementFromCart()))
	routerMux.HandleFunc("DELETE /api/order/delete-order/{id}", authMiddleware.Authenticate(cartHandler.RemoveFromCart()))

	routerMux.HandleFunc("GET /api/admin-chart", authMiddleware.RequireAdmin(reportHandler.AdminChart()))
	routerMux.HandleFunc("GET /api/chart", authMiddleware.Authenticate(reportHandler.UserChart()))

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining. metrics sits directly on the mux so it can read the matched pattern.
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = otelhttp.NewHandler(handler, "http.server")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Failed to flush traces", slog.String("error", err.Error()))
	}
}
