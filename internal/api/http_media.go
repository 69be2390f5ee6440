package api

import (
	"io"
	"net/http"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *HTTPHandler) ListMedia(c *gin.Context) {
	var query entity.MediaQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	assets, meta, err := h.media.List(ctx, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, len(assets), totalOf(meta, len(assets)), gin.H{"media": assets})
}

// UploadMedia 接收 multipart 字段 file
func (h *HTTPHandler) UploadMedia(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		MissingField(c, "file")
		return
	}
	file, err := header.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	defer file.Close()

	// 多读一个字节，超限由服务层判定
	limit := h.cfg.MaxUploadBytes()
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded file")
		InternalError(c, "failed to read upload")
		return
	}

	ctx, cancel := requestContext(c, uploadTimeout)
	defer cancel()

	asset, err := h.media.Upload(ctx, callerOf(c), header.Filename, data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"media": asset})
}

func (h *HTTPHandler) DeleteMedia(c *gin.Context) {
	ctx, cancel := requestContext(c, scanTimeout)
	defer cancel()

	if err := h.media.Delete(ctx, callerOf(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckMediaUsage GET /media/check-usage?url=
func (h *HTTPHandler) CheckMediaUsage(c *gin.Context) {
	ctx, cancel := requestContext(c, scanTimeout)
	defer cancel()

	report, err := h.media.CheckUsage(ctx, c.Query("url"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}
