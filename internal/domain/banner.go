package domain

import "time"

// Banner is a promotional image bound one-to-one to a storefront collection.
// The image bytes live in S3 under Object; the collection title/handle are
// denormalized from the storefront at write time.
type Banner struct {
	BannerID         string    `json:"banner_id" dynamodbav:"banner_id"`
	Object           string    `json:"-" dynamodbav:"object"`
	ContentType      string    `json:"content_type" dynamodbav:"content_type"`
	Size             int64     `json:"size" dynamodbav:"size"`
	CollectionID     string    `json:"collection_id" dynamodbav:"collection_id"`
	CollectionTitle  string    `json:"collection_title" dynamodbav:"collection_title"`
	CollectionHandle string    `json:"collection_handle" dynamodbav:"collection_handle"`
	ImageURL         string    `json:"image_url,omitempty" dynamodbav:"-"`
	CreatedAt        time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
