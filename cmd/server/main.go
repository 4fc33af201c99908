package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/banyumasfresh/shop/internal/config"
	"github.com/banyumasfresh/shop/internal/es"
	"github.com/banyumasfresh/shop/internal/events"
	"github.com/banyumasfresh/shop/internal/files"
	"github.com/banyumasfresh/shop/internal/handlers"
	"github.com/banyumasfresh/shop/internal/logging"
	"github.com/banyumasfresh/shop/internal/mail"
	"github.com/banyumasfresh/shop/internal/service/order"
	httpserver "github.com/banyumasfresh/shop/internal/transport/http"
)

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, event publishing disabled")
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	store, err := files.NewStore(configuration.UPLOAD_DIR, configuration.PUBLIC_URL)
	if err != nil {
		log.Fatal(err)
	}

	orderSvc := &order.Service{DB: db}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := &httpserver.Deps{
		DB:        db,
		JWTSecret: jwtSecret,
		UploadDir: configuration.UPLOAD_DIR,
		UserHandler: &handlers.UserHandler{
			DB:        db,
			JWTSecret: jwtSecret,
			Producer:  producer,
			Mailer:    mail.NewSender(configuration),
			PublicURL: configuration.PUBLIC_URL,
		},
		ProductHandler: &handlers.ProductHandler{
			DB:       db,
			ES:       esClient,
			Index:    "product",
			Producer: producer,
			Files:    store,
		},
		CategoryHandler: &handlers.CategoryHandler{DB: db, Producer: producer},
		CartHandler:     &handlers.CartHandler{Service: orderSvc, Producer: producer},
		OrderHandler:    &handlers.OrderHandler{Service: orderSvc, Producer: producer},
	}

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
