package collection

import (
	"context"

	"github.com/multiyo/banner-admin-api/internal/domain"
)

// Lister fetches collections from the storefront.
type Lister interface {
	FetchCollections(ctx context.Context) ([]domain.Collection, error)
}

type Service interface {
	List(ctx context.Context) ([]domain.Collection, error)
}

type service struct {
	lister Lister
}

func NewService(lister Lister) Service {
	return &service{lister: lister}
}

func (s *service) List(ctx context.Context) ([]domain.Collection, error) {
	return s.lister.FetchCollections(ctx)
}
