package api

import (
	"net/http"
	"strconv"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"
	"github.com/krsnavtr-code/rudra360-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// registerContentReads 注册公开的列表与详情路由
func registerContentReads[T any, R any](r gin.IRouter, path, listKey, itemKey string, coll *service.ContentCollection[T, R], h *HTTPHandler) {
	r.GET(path, func(c *gin.Context) {
		var query entity.ContentQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
			return
		}
		if query.PageSize == 0 {
			query.PageSize = limitParam(c)
		}

		ctx, cancel := requestContext(c, requestTimeout)
		defer cancel()

		records, meta, err := coll.List(ctx, callerOf(c), query)
		if err != nil {
			h.respondError(c, err)
			return
		}
		respondList(c, len(records), totalOf(meta, len(records)), gin.H{listKey: records})
	})

	r.GET(path+"/:id", func(c *gin.Context) {
		ctx, cancel := requestContext(c, requestTimeout)
		defer cancel()

		record, err := coll.Get(ctx, callerOf(c), c.Param("id"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{itemKey: record})
	})
}

// registerContentWrites 注册管理员的增删改路由
func registerContentWrites[T any, R any](r gin.IRouter, path, itemKey string, coll *service.ContentCollection[T, R], h *HTTPHandler) {
	r.POST(path, func(c *gin.Context) {
		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			InvalidPayload(c)
			return
		}

		ctx, cancel := requestContext(c, requestTimeout)
		defer cancel()

		record, err := coll.Create(ctx, callerOf(c), req)
		if err != nil {
			h.respondError(c, err)
			return
		}
		respondData(c, http.StatusCreated, gin.H{itemKey: record})
	})

	r.PATCH(path+"/:id", func(c *gin.Context) {
		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			InvalidPayload(c)
			return
		}

		ctx, cancel := requestContext(c, requestTimeout)
		defer cancel()

		record, err := coll.Update(ctx, callerOf(c), c.Param("id"), req)
		if err != nil {
			h.respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{itemKey: record})
	})

	r.DELETE(path+"/:id", func(c *gin.Context) {
		ctx, cancel := requestContext(c, requestTimeout)
		defer cancel()

		if err := coll.Delete(ctx, callerOf(c), c.Param("id")); err != nil {
			h.respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

// limitParam 兼容前端使用的 limit 参数
func limitParam(c *gin.Context) int64 {
	n, err := strconv.ParseInt(c.Query("limit"), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
