package domain

// Collection is a storefront collection as returned by the Shopify
// Storefront API. Read-only from this service's point of view.
type Collection struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Handle       string           `json:"handle"`
	Description  string           `json:"description"`
	Image        *CollectionImage `json:"image,omitempty"`
	ProductCount int              `json:"productCount"`
}

// CollectionImage is the cover image attached to a collection.
type CollectionImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}
