package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/multiyo/banner-admin-api/internal/config"
	"github.com/multiyo/banner-admin-api/internal/domain"
)

const collectionsQuery = `{
  collections(first: 50) {
    edges {
      node {
        id
        title
        handle
        description
        image { url altText }
        products(first: 1) { edges { node { id } } }
      }
    }
  }
}`

// Client talks to the Shopify Storefront GraphQL API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   fmt.Sprintf("https://%s/api/2024-01/graphql.json", cfg.ShopifyDomain),
		token:      cfg.ShopifyStorefrontToken,
	}
}

// FetchCollections returns the storefront's collections.
func (c *Client) FetchCollections(ctx context.Context) ([]domain.Collection, error) {
	if c.token == "" {
		return nil, fmt.Errorf("missing Shopify credentials")
	}
	body, err := json.Marshal(map[string]string{"query": collectionsQuery})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify API error: %d", resp.StatusCode)
	}

	var out struct {
		Data struct {
			Collections struct {
				Edges []struct {
					Node struct {
						ID          string                  `json:"id"`
						Title       string                  `json:"title"`
						Handle      string                  `json:"handle"`
						Description string                  `json:"description"`
						Image       *domain.CollectionImage `json:"image"`
						Products    struct {
							Edges []struct {
								Node struct {
									ID string `json:"id"`
								} `json:"node"`
							} `json:"edges"`
						} `json:"products"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"collections"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode shopify response: %w", err)
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("shopify GraphQL error: %s", out.Errors[0].Message)
	}

	collections := make([]domain.Collection, 0, len(out.Data.Collections.Edges))
	for _, e := range out.Data.Collections.Edges {
		collections = append(collections, domain.Collection{
			ID:           e.Node.ID,
			Title:        e.Node.Title,
			Handle:       e.Node.Handle,
			Description:  e.Node.Description,
			Image:        e.Node.Image,
			ProductCount: len(e.Node.Products.Edges),
		})
	}
	return collections, nil
}
