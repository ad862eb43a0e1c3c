package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/services"
)

// multipartOverhead, form alanları ve boundary için dosya limitine eklenen pay.
const multipartOverhead = 1 << 20

// UploadHandler, admin görsel yükleme endpoint'leri.
type UploadHandler struct {
	uploadService services.UploadService
	maxSize       int64
}

// NewUploadHandler, constructor.
func NewUploadHandler(uploadService services.UploadService, maxSize int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxSize:       maxSize,
	}
}

// Upload godoc
// POST /api/upload (Bearer)
// Content-Type: multipart/form-data, alanlar: file, folder (general|events|blog)
// Response: { "url": "...", "path": "public/images/<folder>/<file>" }
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	result, err := h.uploadService.UploadImage(r.Context(), r.FormValue("folder"), file, header)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.RawJSON(w, http.StatusOK, result)
}

// Delete godoc
// DELETE /api/upload (Bearer)
// Body: { "path": "public/images/..." }
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "path is required")
		return
	}

	if err := h.uploadService.DeleteImage(r.Context(), req.Path); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.RawJSON(w, http.StatusOK, map[string]any{"success": true})
}
