package controllers

import (
	"errors"
	"strconv"

	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"Invalid username or password"`
	Data    interface{} `json:"data"`
}

// handleServiceError 把服务层错误映射为统一响应，
// fallbackMsg 用于不属于任何已知类别的错误
func handleServiceError(ctx *gin.Context, err error, fallbackMsg string) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.ParamError(ctx, vErr.Error())
	case errors.Is(err, services.ErrAlreadyEntered):
		response.FailWithMessage(ctx, code.ErrVisitorAlreadyEntered, err.Error(), nil)
	case errors.Is(err, services.ErrRecordNotFound):
		response.NotFound(ctx, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		response.FailWithMessage(ctx, code.ErrVisitorInvalidState, err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		response.FailWithMessage(ctx, code.ErrConflict, err.Error(), nil)
	default:
		response.FailWithMessage(ctx, code.ErrDatabase, fallbackMsg+": "+err.Error(), nil)
	}
}

// parseIDParam 解析路径中的数字ID参数
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	if raw == "" {
		response.ParamError(ctx, "ID不能为空")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		response.ParamError(ctx, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// parsePagination 解析分页查询参数
func parsePagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// pageResult 组装分页响应体
func pageResult(total int64, page, pageSize int, data interface{}) gin.H {
	return gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        data,
	}
}
