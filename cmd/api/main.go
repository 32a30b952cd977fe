package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"beatlab/internal/database"
	"beatlab/internal/middleware"
	"beatlab/internal/modules/auth"
	"beatlab/internal/modules/catalog"
	"beatlab/internal/modules/payment"
	"beatlab/internal/modules/submission"
	"beatlab/internal/notification"
	jwtsvc "beatlab/internal/pkg/jwt"
	"beatlab/internal/repository"
	"beatlab/internal/storage"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is empty")
	}
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Fatal("STRIPE_WEBHOOK_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	beatRepo := repository.NewBeatRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)
	store := storage.NewLocalStorage(os.Getenv("UPLOADS_DIR"), "/static/uploads")
	notifier := notification.NewConsoleNotifier(true)
	stripeClient := payment.NewStripeClient(stripeKey, webhookSecret)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(beatRepo, store)
	catalogHandler := catalog.NewHandler(catalogService)

	submissionService := submission.NewService(submissionRepo, store, notifier)
	submissionHandler := submission.NewHandler(submissionService)

	paymentService := payment.NewService(beatRepo, userRepo, purchaseRepo, stripeClient, log.Printf)
	paymentHandler := payment.NewHandler(paymentService, log.Printf)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.Static("/static/uploads", store.BaseDir())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		submissionHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterWebhookRoutes(v1)

		// checkout works for guests too, identity attached when present
		checkout := v1.Group("/")
		checkout.Use(middleware.OptionalJWTAuth(j))
		{
			paymentHandler.RegisterCheckoutRoutes(checkout)
		}

		// authenticated
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
		}

		// admin
		admin := v1.Group("/")
		admin.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			catalogHandler.RegisterAdminRoutes(admin)
			submissionHandler.RegisterAdminRoutes(admin)
		}
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
