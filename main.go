package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"match-service/internal/auth"
	"match-service/internal/db"
	"match-service/internal/fanout"
	"match-service/internal/handlers"
	"match-service/internal/middleware"
	"match-service/internal/observability"
	"match-service/internal/presence"
	"match-service/internal/repositories"
	"match-service/internal/telemetry"
	"match-service/internal/ws"
)

func main() {
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracer, err := observability.InitTracer(context.Background(),
		getEnv("OTLP_ENDPOINT", ""), "match-service")
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracer(context.Background())

	publisher := observability.NewPublisher(
		getEnv("AMQP_URL", ""),
		getEnv("AMQP_EXCHANGE", "match_events"),
	)
	defer publisher.Close()
	observability.SetPublisher(publisher)

	emitter := telemetry.NewEmitter("match_events", "match-service", getEnv("ENVIRONMENT", "development"))
	tracker := presence.NewRedisTracker(getEnv("REDIS_ADDR", ""))
	tokens := auth.NewTokenService(getEnv("JWT_SECRET", "dev-secret"), 24*time.Hour)

	swipeRepo := repositories.NewSwipeRepo(database)
	balanceRepo := repositories.NewBalanceRepo(database)
	matchRepo := repositories.NewMatchRepo(database)
	matchmaker := repositories.NewMatchmakerRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)
	profileRepo := repositories.NewProfileRepo(database)

	hub := ws.NewHub()
	dispatcher := fanout.NewDispatcher(notificationRepo, hub, emitter)
	gateway := ws.NewGateway(hub, tokens, matchRepo, messageRepo, dispatcher, tracker, emitter)

	swipeHandler := handlers.NewSwipeHandler(matchmaker, swipeRepo, balanceRepo, profileRepo, tracker, emitter)
	matchHandler := handlers.NewMatchHandler(matchRepo, profileRepo, emitter)
	messageHandler := handlers.NewMessageHandler(matchRepo, messageRepo, hub, emitter)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, dispatcher)
	balanceHandler := handlers.NewBalanceHandler(balanceRepo)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("match-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.AuthMiddleware(tokens)

	router.POST("/swipe", authMiddleware, swipeHandler.PostSwipe)
	router.DELETE("/swipe/:swiper_user_id/:swiped_user_id", authMiddleware, swipeHandler.UndoSwipe)
	router.GET("/swipe/check/:swiped_user_id", authMiddleware, swipeHandler.CheckSwipe)
	router.GET("/swipe/stats/:user_id", authMiddleware, swipeHandler.SwipeStats)
	router.GET("/swipe/history/:user_id", authMiddleware, swipeHandler.SwipeHistory)
	router.GET("/swipe/swipers/:user_id", authMiddleware, swipeHandler.Swipers)
	router.GET("/swipe/potential-matches/:user_id", authMiddleware, swipeHandler.PotentialMatches)

	router.GET("/match", authMiddleware, matchHandler.ListMatches)
	router.GET("/match/:match_id", authMiddleware, matchHandler.GetMatch)
	router.GET("/match/with/:user_id", authMiddleware, matchHandler.PairMatch)
	router.DELETE("/match/:match_id", authMiddleware, matchHandler.Unmatch)

	router.POST("/message", authMiddleware, messageHandler.PostMessage)
	router.GET("/message/match/:match_id", authMiddleware, messageHandler.GetMatchMessages)
	router.PUT("/message/match/:match_id/read", authMiddleware, messageHandler.MarkMatchRead)
	router.GET("/message/unread", authMiddleware, messageHandler.UnreadCounts)
	router.PUT("/message/:message_id/read", authMiddleware, messageHandler.MarkMessageRead)
	router.PUT("/message/:message_id", authMiddleware, messageHandler.EditMessage)
	router.DELETE("/message/:message_id", authMiddleware, messageHandler.DeleteMessage)

	router.GET("/notifications", authMiddleware, notificationHandler.ListNotifications)
	router.POST("/notifications", authMiddleware, notificationHandler.CreateNotification)
	router.PUT("/notifications/read", authMiddleware, notificationHandler.MarkAllRead)
	router.GET("/notifications/unread-count", authMiddleware, notificationHandler.UnreadCount)

	router.GET("/balance", authMiddleware, balanceHandler.GetBalance)
	router.POST("/balance/credit", authMiddleware, balanceHandler.Credit)

	router.GET("/ws", gateway.Handle)

	port := getEnv("PORT", "8083")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
