package api

import (
	"net/http"

	"github.com/krsnavtr-code/rudra360-sub000/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = apperr.CodeUnauthorized
	ErrCodeForbidden          = apperr.CodeForbidden
	ErrCodeNotFound           = apperr.CodeNotFound
	ErrCodeInternalError      = apperr.CodeInternal
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// 认证错误码
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeEmailExists        = "ERR_EMAIL_EXISTS"
	ErrCodeRegistrationClosed = "ERR_REGISTRATION_CLOSED"
	ErrCodeUserDisabled       = "ERR_USER_DISABLED"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"

	// 资源错误码
	ErrCodeTagNotFound  = apperr.CodeTagNotFound
	ErrCodeUserNotFound = "ERR_USER_NOT_FOUND"

	// 业务逻辑错误码
	ErrCodeMissingField     = apperr.CodeMissingField
	ErrCodeCannotDeleteSelf = "ERR_CANNOT_DELETE_SELF"
)

// 响应状态
const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// envelopeStatus 4xx 为 fail，5xx 为 error
func envelopeStatus(httpStatus int) string {
	if httpStatus >= http.StatusInternalServerError {
		return statusError
	}
	return statusFail
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	ErrorResponseWithDetails(c, status, code, message, nil)
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.AbortWithStatusJSON(status, APIError{
		Status:  envelopeStatus(status),
		Code:    code,
		Message: message,
		Details: details,
	})
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable 503 服务不可用
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// MissingField 缺少必填字段
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}

// respondError 将服务层错误映射为 HTTP 响应。内部错误只在非生产环境附带原因。
func (h *HTTPHandler) respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	status := appErr.HTTPStatus()
	details := appErr.Details

	if appErr.Kind == apperr.KindInternal {
		logrus.WithError(appErr.Err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error(appErr.Message)
		details = nil
		if !h.cfg.IsProduction() && appErr.Err != nil {
			details = gin.H{"error": appErr.Err.Error()}
		}
	}
	ErrorResponseWithDetails(c, status, appErr.Code, appErr.Message, details)
}

// respondData 返回 {"status":"success","data":...}
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"status": statusSuccess,
		"data":   data,
	})
}

// respondList 返回带 results/total 的列表响应
func respondList(c *gin.Context, results int, total int64, data any) {
	c.JSON(http.StatusOK, gin.H{
		"status":  statusSuccess,
		"results": results,
		"total":   total,
		"data":    data,
	})
}
