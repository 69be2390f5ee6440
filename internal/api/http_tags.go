package api

import (
	"net/http"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/gin-gonic/gin"
)

// ListTags GET /media/tags?search=&page=&limit=
func (h *HTTPHandler) ListTags(c *gin.Context) {
	var query entity.TagQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	tags, meta, err := h.tags.List(ctx, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, len(tags), totalOf(meta, len(tags)), gin.H{"tags": tags})
}

func (h *HTTPHandler) GetTag(c *gin.Context) {
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	tag, err := h.tags.Get(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"tag": tag})
}

func (h *HTTPHandler) CreateTag(c *gin.Context) {
	var req entity.TagCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		MissingField(c, "name")
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	tag, err := h.tags.Create(ctx, callerOf(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"tag": tag})
}

func (h *HTTPHandler) UpdateTag(c *gin.Context) {
	var req entity.TagUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	tag, err := h.tags.Update(ctx, callerOf(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"tag": tag})
}

// DeleteTag 使用中的标签返回 400
func (h *HTTPHandler) DeleteTag(c *gin.Context) {
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	if err := h.tags.Delete(ctx, callerOf(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateMediaTags PATCH /media/tags/update-media，将媒体的标签集合替换为 tagIds
func (h *HTTPHandler) UpdateMediaTags(c *gin.Context) {
	var req entity.TagMediaUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "mediaUrl must be a string and tagIds must be an array")
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	tags, err := h.tagSync.SetTagsForMedia(ctx, callerOf(c), req.MediaURL, req.TagIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"tags": tags})
}
