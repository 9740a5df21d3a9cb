package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// ImageHandler serves product images from object storage.
type ImageHandler struct {
	storage model.ObjectStorage
	logger  *logger.Logger
}

func NewImageHandler(storage model.ObjectStorage, logger *logger.Logger) *ImageHandler {
	return &ImageHandler{storage: storage, logger: logger}
}

func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Base(chi.URLParam(r, "name"))
	if name == "." || name == "/" {
		writeError(w, model.ErrNotFound)
		return
	}

	obj, err := h.storage.Download(r.Context(), name)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			h.logger.Error("failed to download image", "name", name, "error", err.Error())
		}
		writeError(w, err)
		return
	}
	defer obj.Close()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj); err != nil {
		h.logger.Debug("image copy interrupted", "name", name, "error", err.Error())
	}
}
