package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	bannerapp "github.com/multiyo/banner-admin-api/internal/application/banner"
)

// BannerHandler handles banner gallery endpoints.
type BannerHandler struct {
	svc bannerapp.Service
}

func NewBannerHandler(svc bannerapp.Service) *BannerHandler { return &BannerHandler{svc: svc} }

func (h *BannerHandler) List(w http.ResponseWriter, r *http.Request) {
	banners, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BannerListEnvelope{Banners: banners})
}

func (h *BannerHandler) Upload(w http.ResponseWriter, r *http.Request) {
	input, ok := parseBannerForm(w, r)
	if !ok {
		return
	}
	created, err := h.svc.Upload(r.Context(), *input)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, BannerEnvelope{Message: "Banner uploaded successfully", Banner: created})
}

func (h *BannerHandler) Replace(w http.ResponseWriter, r *http.Request) {
	input, ok := parseBannerForm(w, r)
	if !ok {
		return
	}
	updated, err := h.svc.Replace(r.Context(), chi.URLParam(r, "id"), *input)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BannerEnvelope{Message: "Banner replaced successfully", Banner: updated})
}

func (h *BannerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Banner deleted successfully"})
}

// parseBannerForm reads the multipart "banner" file and "collectionId" field.
// Writes the error response itself when the form is invalid.
func parseBannerForm(w http.ResponseWriter, r *http.Request) (*bannerapp.UploadInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, bannerapp.MaxImageSize+(1<<20))
	if err := r.ParseMultipartForm(bannerapp.MaxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, false
	}
	f, header, err := r.FormFile("banner")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return nil, false
	}
	// The file handle stays valid for the request lifetime; the server
	// cleans up the multipart form when the request ends.

	collectionID := r.FormValue("collectionId")
	if collectionID == "" {
		f.Close()
		writeError(w, http.StatusBadRequest, "collection ID is required")
		return nil, false
	}

	return &bannerapp.UploadInput{
		Reader:       f,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		CollectionID: collectionID,
	}, true
}
