package handler

import (
	"errors"
	"net/http"

	"art_contest_admin/internal/pkg/uploader"
	"art_contest_admin/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	FormField    = "image"
	UploadFolder = "campaigns"
)

// RejectionRecorder 上传拒绝指标
type RejectionRecorder interface {
	RecordUploadRejected(reason string)
}

type UploadHandler struct {
	uploader uploader.Uploader
	maxBytes int64
	metrics  RejectionRecorder
	log      *zap.Logger
}

func NewUploadHandler(up uploader.Uploader, maxBytes int64, metrics RejectionRecorder, log *zap.Logger) *UploadHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UploadHandler{uploader: up, maxBytes: maxBytes, metrics: metrics, log: log}
}

func (h *UploadHandler) reject(c *gin.Context, reason string, code int, msg string) {
	if h.metrics != nil {
		h.metrics.RecordUploadRejected(reason)
	}
	response.Error(c, http.StatusBadRequest, code, msg)
}

// RegisterRoutes /upload/image 是 /upload 的别名
func (h *UploadHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/upload", h.UploadImage)
	r.POST("/upload/image", h.UploadImage)
}

// UploadImage 上传活动参考图
// @Summary 上传图片到 OSS
// @Tags Upload
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image (max 5MB)"
// @Success 200 {object} response.Response "data.imageUrl"
// @Router /api/upload [post]
// @Router /api/upload/image [post]
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "Uploader not initialized")
		return
	}

	file, err := c.FormFile(FormField)
	if err != nil {
		h.reject(c, "missing_file", response.ErrInvalidParam, "No image uploaded")
		return
	}

	// 校验通过前不触碰存储
	img, err := uploader.ValidateImage(file, h.maxBytes)
	if err != nil {
		switch {
		case errors.Is(err, uploader.ErrImageTooLarge):
			h.reject(c, "too_large", response.ErrImageTooLarge, err.Error())
		case errors.Is(err, uploader.ErrNotImage), errors.Is(err, uploader.ErrEmptyFile):
			h.reject(c, "not_image", response.ErrInvalidImage, err.Error())
		default:
			h.log.Error("read upload failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to read upload")
		}
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), img.Reader(), UploadFolder, img.Extension, img.ContentType)
	if err != nil {
		h.log.Error("upload to storage failed", zap.String("filename", file.Filename), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Upload failed")
		return
	}

	h.log.Info("image uploaded", zap.String("url", url), zap.Int("bytes", len(img.Content)))
	response.SuccessWithMessage(c, "Image uploaded successfully", gin.H{"imageUrl": url})
}
