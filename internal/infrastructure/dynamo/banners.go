package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/multiyo/banner-admin-api/internal/domain"
)

// BannerRepo provides typed DynamoDB operations for the banners table.
type BannerRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBannerRepo(client *dynamodb.Client, tableName string) *BannerRepo {
	return &BannerRepo{client: client, tableName: tableName}
}

func (r *BannerRepo) Put(ctx context.Context, b *domain.Banner) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal banner: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *BannerRepo) Get(ctx context.Context, bannerID string) (*domain.Banner, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("banner_id", bannerID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("banner not found: %w", domain.ErrNotFound)
	}
	var b domain.Banner
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns all banners, newest first. The gallery is small (one banner
// per storefront collection) so a full scan is fine.
func (r *BannerRepo) List(ctx context.Context) ([]domain.Banner, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var banners []domain.Banner
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &banners); err != nil {
		return nil, err
	}
	sort.Slice(banners, func(i, j int) bool {
		return banners[i].CreatedAt.After(banners[j].CreatedAt)
	})
	return banners, nil
}

func (r *BannerRepo) Update(ctx context.Context, bannerID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339Nano)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("banner_id", bannerID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *BannerRepo) Delete(ctx context.Context, bannerID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("banner_id", bannerID),
	})
	return err
}
