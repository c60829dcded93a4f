package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"busbook/config"
	"busbook/cron"
	"busbook/database"
	bookingRepoPkg "busbook/database/repository/booking"
	catalogRepoPkg "busbook/database/repository/catalog"
	chatRepoPkg "busbook/database/repository/chat"
	inventoryRepoPkg "busbook/database/repository/inventory"
	userRepoPkg "busbook/database/repository/user"
	walletRepoPkg "busbook/database/repository/wallet"
	"busbook/handlers"
	"busbook/routes"
	"busbook/services/agent"
	"busbook/services/booking"
	"busbook/services/catalog"
	"busbook/services/notification"
	"busbook/services/payment"
	"busbook/services/tasks"
	"busbook/services/user"
	"busbook/services/wallet"
	"busbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	stripe.Key = config.AppConfig.StripeKey

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Repositories.
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()
	inventoryRepo := inventoryRepoPkg.NewMongoInventoryRepo()
	walletRepo := walletRepoPkg.NewMongoWalletRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	chatRepo := chatRepoPkg.NewMongoChatRepo()
	txRunner := database.NewMongoTxRunner(database.MongoClient)

	// Services.
	paymentSvc := payment.NewStripePaymentService()
	notificationSvc := notification.NewLogNotificationService()
	reminderScheduler := tasks.NewAsynqReminderScheduler()

	userSvc := user.NewDefaultUserService(userRepo, walletRepo)
	catalogSvc := catalog.NewDefaultCatalogService(catalogRepo, inventoryRepo)
	walletSvc := wallet.NewDefaultWalletService(walletRepo, txRunner, paymentSvc)
	bookingSvc := booking.NewDefaultBookingService(
		catalogRepo, inventoryRepo, walletRepo, bookingRepo,
		txRunner, paymentSvc, notificationSvc, reminderScheduler,
	)

	toolRegistry := agent.NewToolRegistry(catalogSvc, walletSvc, bookingSvc)
	conv, err := agent.NewGeminiAgent(context.Background(),
		config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel, toolRegistry)
	if err != nil {
		logger.Fatal("failed to initialize agent runtime", zap.Error(err))
	}
	ctxStore := agent.NewRedisContextStore(utils.GetAgentCtxClient(), 30*time.Minute)
	agentSvc := agent.NewDefaultAgentService(chatRepo, ctxStore, conv)

	handlerBundle := &handlers.HandlerBundle{
		UserSvc:    userSvc,
		CatalogSvc: catalogSvc,
		BookingSvc: bookingSvc,
		WalletSvc:  walletSvc,
		AgentSvc:   agentSvc,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background workers.
	tripCron := cron.StartTripCompletionCron(bookingSvc)
	cron.InitReminderWorker(notificationSvc)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("Starting server on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	tripCron.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
