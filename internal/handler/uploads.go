package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"fsanano/coffee-shop/internal/service/media"

	"github.com/go-chi/chi/v5"
)

// multipart overhead allowed on top of the file itself
const formOverhead = 64 << 10

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes+formOverhead)

	file, _, err := r.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeMessage(w, http.StatusRequestEntityTooLarge, media.ErrTooLarge.Error())
			return
		}
		writeMessage(w, http.StatusBadRequest, `multipart field "image" is required`)
		return
	}
	defer file.Close()

	key, err := h.media.Save(r.Context(), file)
	if err != nil {
		writeError(w, r, "Handler.Upload", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": "/uploads/" + key})
}

func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	const op = "Handler.ServeUpload"

	rd, err := h.media.Open(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		writeError(w, r, op, err)
		return
	}
	defer rd.Close()

	w.Header().Set("Content-Type", rd.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	if _, err := io.Copy(w, rd); err != nil {
		slog.Error("failed to stream upload", "op", op, "err", err)
	}
}
