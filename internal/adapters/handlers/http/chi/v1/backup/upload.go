package backup

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi/auth"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi/response"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	msgNoFile        = "no file uploaded"
	msgTooLarge      = "file too large"
	msgTransferError = "failed to send file to remote store"
	msgInternalError = "internal server error"

	// memory kept by the multipart parser before spilling to disk
	multipartMemory = 32 << 20
)

// UploadV1 receives one multipart file and archives it for the calling client
func (h *HandlerV1) UploadV1(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	client, ok := auth.ClientFromContext(r.Context())
	if !ok {
		h.logger.Error("upload reached without an authenticated client", "request_id", requestID)
		response.Write(w, http.StatusForbidden, response.Failure("missing or invalid token"))
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.Write(w, http.StatusRequestEntityTooLarge, response.Failure(msgTooLarge))
			return
		}
		h.logger.Warn("invalid multipart request", "request_id", requestID, "error", err)
		response.Write(w, http.StatusBadRequest, response.Failure(msgNoFile))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(h.formField)
	if err != nil {
		response.Write(w, http.StatusBadRequest, response.Failure(msgNoFile))
		return
	}
	defer file.Close()

	if header.Size > h.maxSize {
		response.Write(w, http.StatusRequestEntityTooLarge, response.Failure(msgTooLarge))
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.maxSize+1))
	if err != nil {
		h.logger.Error("error reading uploaded file", "request_id", requestID, "error", err)
		response.Write(w, http.StatusInternalServerError, response.Failure(msgInternalError))
		return
	}
	if int64(len(content)) > h.maxSize {
		response.Write(w, http.StatusRequestEntityTooLarge, response.Failure(msgTooLarge))
		return
	}

	result, err := h.backupService.Archive(r.Context(), domain.UploadRequest{
		Content:      content,
		OriginalName: header.Filename,
		ClientToken:  client.Token,
		Client:       client,
	})
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.Write(w, http.StatusBadRequest, response.Failure(validationReason(err)))
	case errors.Is(err, domain.ErrTransfer):
		response.Write(w, http.StatusInternalServerError, response.Failure(msgTransferError))
	case err != nil:
		h.logger.Error("error archiving backup", "request_id", requestID, "error", err)
		response.Write(w, http.StatusInternalServerError, response.Failure(msgInternalError))
	default:
		h.logger.Info("backup archived", "request_id", requestID, "client_id", client.ID, "location", result.Location, "evicted", len(result.Evicted))
		response.Write(w, http.StatusCreated, response.Success(result.Message()))
	}
}

// validationReason strips the sentinel prefix so the client reads only the reason
func validationReason(err error) string {
	reason := strings.TrimPrefix(err.Error(), fmt.Sprintf("%s: ", domain.ErrValidation))
	if reason == "" {
		return domain.ErrValidation.Error()
	}
	return reason
}
