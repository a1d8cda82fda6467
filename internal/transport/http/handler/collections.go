package handler

import (
	"net/http"

	collectionapp "github.com/multiyo/banner-admin-api/internal/application/collection"
)

// CollectionHandler proxies storefront collections to the admin UI.
type CollectionHandler struct {
	svc collectionapp.Service
}

func NewCollectionHandler(svc collectionapp.Service) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	collections, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CollectionListEnvelope{Collections: collections})
}
