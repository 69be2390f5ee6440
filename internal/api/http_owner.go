package api

import (
	"net/http"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/gin-gonic/gin"
)

// GetOwnerInfo 公开的站点所有者信息
func (h *HTTPHandler) GetOwnerInfo(c *gin.Context) {
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	info, err := h.owner.Get(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"owner": info})
}

func (h *HTTPHandler) UpdateOwnerInfo(c *gin.Context) {
	var req entity.OwnerInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid owner info payload")
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	info, err := h.owner.Update(ctx, callerOf(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"owner": info})
}
