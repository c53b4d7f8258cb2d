package http

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"awn-backend/internal/domain"
	"awn-backend/internal/service"
	"awn-backend/internal/storage"
)

// DocumentHandler serves document uploads and downloads. Uploads arrive as
// multipart form data under the "file" field.
type DocumentHandler struct {
	documents service.DocumentService
	store     storage.DocumentStore
}

func NewDocumentHandler(documents service.DocumentService, store storage.DocumentStore) *DocumentHandler {
	return &DocumentHandler{documents: documents, store: store}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	doc, err := h.documents.Upload(r.Context(), claims.UserID, header.Filename, mimeType, header.Size, file)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	docs, err := h.documents.ListDocuments(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	respondJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	doc, err := h.documents.GetDocument(r.Context(), claims.UserID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// Download streams the stored bytes. Ownership is checked through the
// metadata lookup before the store is touched.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	doc, err := h.documents.GetDocument(r.Context(), claims.UserID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	file, err := h.store.Open(doc.StorageKey)
	if err != nil {
		respondError(w, http.StatusNotFound, "document content not found")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Name+`"`)
	io.Copy(w, file)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	if err := h.documents.DeleteDocument(r.Context(), claims.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
