package banner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/multiyo/banner-admin-api/internal/domain"
	"github.com/multiyo/banner-admin-api/internal/infrastructure/sns"
	"github.com/multiyo/banner-admin-api/internal/pkg/id"
)

// MaxImageSize is the upload ceiling for banner images.
const MaxImageSize = 5 << 20 // 5MB

// presignTTL bounds how long a listed image URL stays fetchable.
const presignTTL = time.Hour

var allowedContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// BannerStore persists banner records.
type BannerStore interface {
	Put(ctx context.Context, b *domain.Banner) error
	Get(ctx context.Context, bannerID string) (*domain.Banner, error)
	List(ctx context.Context) ([]domain.Banner, error)
	Update(ctx context.Context, bannerID string, updates map[string]interface{}) error
	Delete(ctx context.Context, bannerID string) error
}

// ImageStore holds the image objects themselves.
type ImageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// CollectionLister resolves storefront collections for binding checks.
type CollectionLister interface {
	FetchCollections(ctx context.Context) ([]domain.Collection, error)
}

type UploadInput struct {
	Reader       io.Reader
	ContentType  string
	Size         int64
	CollectionID string
}

type Service interface {
	List(ctx context.Context) ([]domain.Banner, error)
	Upload(ctx context.Context, input UploadInput) (*domain.Banner, error)
	Replace(ctx context.Context, bannerID string, input UploadInput) (*domain.Banner, error)
	Delete(ctx context.Context, bannerID string) error
}

type service struct {
	banners     BannerStore
	images      ImageStore
	collections CollectionLister
	events      sns.EventPublisher // nil disables event publishing
}

func NewService(banners BannerStore, images ImageStore, collections CollectionLister, events sns.EventPublisher) Service {
	return &service{banners: banners, images: images, collections: collections, events: events}
}

func (s *service) List(ctx context.Context) ([]domain.Banner, error) {
	banners, err := s.banners.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range banners {
		url, err := s.images.PresignedURL(ctx, banners[i].Object, presignTTL)
		if err != nil {
			slog.Warn("failed to presign banner image", "banner_id", banners[i].BannerID, "err", err)
			continue
		}
		banners[i].ImageURL = url
	}
	return banners, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.Banner, error) {
	col, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	bannerID := id.New()
	key := fmt.Sprintf("banners/%s%s", bannerID, allowedContentTypes[input.ContentType])
	if _, err := s.images.Upload(ctx, key, io.LimitReader(input.Reader, MaxImageSize), input.ContentType); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &domain.Banner{
		BannerID:         bannerID,
		Object:           key,
		ContentType:      input.ContentType,
		Size:             input.Size,
		CollectionID:     col.ID,
		CollectionTitle:  col.Title,
		CollectionHandle: col.Handle,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.banners.Put(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, "created", b)
	s.presign(ctx, b)
	return b, nil
}

func (s *service) Replace(ctx context.Context, bannerID string, input UploadInput) (*domain.Banner, error) {
	existing, err := s.banners.Get(ctx, bannerID)
	if err != nil {
		return nil, err
	}
	col, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("banners/%s%s", id.New(), allowedContentTypes[input.ContentType])
	if _, err := s.images.Upload(ctx, key, io.LimitReader(input.Reader, MaxImageSize), input.ContentType); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"object":            key,
		"content_type":      input.ContentType,
		"size":              input.Size,
		"collection_id":     col.ID,
		"collection_title":  col.Title,
		"collection_handle": col.Handle,
	}
	if err := s.banners.Update(ctx, bannerID, updates); err != nil {
		return nil, err
	}
	if err := s.images.Delete(ctx, existing.Object); err != nil {
		slog.Warn("failed to delete replaced banner image", "banner_id", bannerID, "key", existing.Object, "err", err)
	}

	b := &domain.Banner{
		BannerID:         bannerID,
		Object:           key,
		ContentType:      input.ContentType,
		Size:             input.Size,
		CollectionID:     col.ID,
		CollectionTitle:  col.Title,
		CollectionHandle: col.Handle,
		CreatedAt:        existing.CreatedAt,
		UpdatedAt:        time.Now().UTC(),
	}
	s.publish(ctx, "replaced", b)
	s.presign(ctx, b)
	return b, nil
}

func (s *service) Delete(ctx context.Context, bannerID string) error {
	b, err := s.banners.Get(ctx, bannerID)
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, b.Object); err != nil {
		slog.Warn("failed to delete banner image", "banner_id", bannerID, "key", b.Object, "err", err)
	}
	if err := s.banners.Delete(ctx, bannerID); err != nil {
		return err
	}
	s.publish(ctx, "deleted", b)
	return nil
}

// validate checks the image constraints and resolves the bound collection
// against the storefront. The binding must reference a collection that exists
// at write time.
func (s *service) validate(ctx context.Context, input UploadInput) (*domain.Collection, error) {
	if input.CollectionID == "" {
		return nil, fmt.Errorf("collection ID is required: %w", domain.ErrBadRequest)
	}
	if _, ok := allowedContentTypes[input.ContentType]; !ok {
		return nil, fmt.Errorf("invalid file type, allowed: png, jpg, jpeg, gif, webp: %w", domain.ErrBadRequest)
	}
	if input.Size > MaxImageSize {
		return nil, fmt.Errorf("file size exceeds 5MB limit: %w", domain.ErrBadRequest)
	}

	cols, err := s.collections.FetchCollections(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cols {
		if cols[i].ID == input.CollectionID {
			return &cols[i], nil
		}
	}
	return nil, fmt.Errorf("collection not found: %w", domain.ErrNotFound)
}

func (s *service) presign(ctx context.Context, b *domain.Banner) {
	url, err := s.images.PresignedURL(ctx, b.Object, presignTTL)
	if err != nil {
		slog.Warn("failed to presign banner image", "banner_id", b.BannerID, "err", err)
		return
	}
	b.ImageURL = url
}

func (s *service) publish(ctx context.Context, action string, b *domain.Banner) {
	if s.events == nil {
		return
	}
	ev := sns.BannerEvent{
		Action:           action,
		BannerID:         b.BannerID,
		CollectionID:     b.CollectionID,
		CollectionHandle: b.CollectionHandle,
		OccurredAt:       time.Now().UTC(),
	}
	if err := s.events.PublishBannerEvent(ctx, ev); err != nil {
		slog.Warn("failed to publish banner event", "action", action, "banner_id", b.BannerID, "err", err)
	}
}
