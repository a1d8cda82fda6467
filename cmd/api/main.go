package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/multiyo/banner-admin-api/internal/config"
	"github.com/multiyo/banner-admin-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/multiyo/banner-admin-api/internal/infrastructure/jwt"
	s3infra "github.com/multiyo/banner-admin-api/internal/infrastructure/s3"
	"github.com/multiyo/banner-admin-api/internal/infrastructure/shopify"
	"github.com/multiyo/banner-admin-api/internal/infrastructure/smtp"
	"github.com/multiyo/banner-admin-api/internal/infrastructure/sns"
	transporthttp "github.com/multiyo/banner-admin-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if len(cfg.AdminEmails) == 0 {
		log.Println("WARN: ADMIN_EMAILS is empty, nobody can log in")
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// S3 store for banner images.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer for OTP delivery.
	mailer := smtp.NewMailer(cfg)

	// Storefront collections.
	shopifyClient := shopify.NewClient(cfg)

	// SNS banner event publisher, disabled when no topic is configured.
	var events sns.EventPublisher
	if cfg.SNSTopicARN != "" {
		if p, err := sns.NewPublisher(cfg); err == nil {
			events = p
		} else {
			log.Printf("WARN: SNS publisher not available: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		BannerRepo:     dynamo.NewBannerRepo(dynamoClient, cfg.DynamoTables.Banners),
		OTPRepo:        dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPs),
		S3Store:        s3Store,
		Mailer:         mailer,
		Shopify:        shopifyClient,
		EventPublisher: events,
		JWTProvider:    jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
