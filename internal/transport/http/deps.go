package http

import (
	"github.com/multiyo/banner-admin-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/multiyo/banner-admin-api/internal/infrastructure/jwt"
	s3infra "github.com/multiyo/banner-admin-api/internal/infrastructure/s3"
	"github.com/multiyo/banner-admin-api/internal/infrastructure/shopify"
	"github.com/multiyo/banner-admin-api/internal/infrastructure/smtp"
	"github.com/multiyo/banner-admin-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	BannerRepo     *dynamo.BannerRepo
	OTPRepo        *dynamo.OTPRepo
	S3Store        *s3infra.Store
	Mailer         smtp.Mailer
	Shopify        *shopify.Client
	EventPublisher sns.EventPublisher // nil disables banner events
	JWTProvider    *jwtinfra.Provider
}
