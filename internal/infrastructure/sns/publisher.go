package sns

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/multiyo/banner-admin-api/internal/config"
)

// BannerEvent describes a change to the banner gallery. Storefront caches
// subscribe to the topic and revalidate the affected collection page.
type BannerEvent struct {
	Action           string    `json:"action"` // "created" | "replaced" | "deleted"
	BannerID         string    `json:"banner_id"`
	CollectionID     string    `json:"collection_id,omitempty"`
	CollectionHandle string    `json:"collection_handle,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// EventPublisher publishes banner gallery events.
type EventPublisher interface {
	PublishBannerEvent(ctx context.Context, ev BannerEvent) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

func NewPublisher(cfg *config.Config) (EventPublisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &publisher{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSTopicARN}, nil
}

func (p *publisher) PublishBannerEvent(ctx context.Context, ev BannerEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
	})
	return err
}
