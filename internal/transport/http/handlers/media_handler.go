package handlers

import (
	"errors"
	"net/http"

	mediasvc "github.com/EricSteeles/Curb-Alert/internal/services/media"
	"github.com/EricSteeles/Curb-Alert/internal/transport/http/dto"
	httperrors "github.com/EricSteeles/Curb-Alert/internal/transport/http/errors"
)

const maxImageUploadSize = 60 << 20 // 5 files x 10 MiB plus form overhead

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "X-Owner-ID header is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadSize)
	if err := r.ParseMultipartForm(maxImageUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "at least one file is required")
		return
	}

	headers := r.MultipartForm.File["files"]
	uploads := make([]mediasvc.Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "unreadable file in form")
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		uploads = append(uploads, mediasvc.Upload{
			FileName:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Body:        file,
		})
	}

	images, err := h.service.UploadImages(r.Context(), owner, uploads)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	resp := dto.MediaUploadResponse{Images: make([]dto.MediaImage, 0, len(images))}
	for _, image := range images {
		resp.Images = append(resp.Images, dto.MediaImage{Key: image.Key, URL: image.URL})
	}

	httperrors.Write(w, http.StatusCreated, resp)
}

func handleMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid media request")
	case errors.Is(err, mediasvc.ErrTooManyFiles):
		writeBadRequest(w, "TOO_MANY_FILES", err.Error())
	case errors.Is(err, mediasvc.ErrFileTooLarge):
		writeBadRequest(w, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, mediasvc.ErrBadFileType):
		writeBadRequest(w, "UNSUPPORTED_FILE_TYPE", err.Error())
	default:
		writeInternal(w, "INTERNAL_ERROR", "media operation failed")
	}
}
