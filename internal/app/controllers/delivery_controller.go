package controllers

import (
	"errors"
	"time"

	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceDeliveryController 定义快递控制器接口
type InterfaceDeliveryController interface {
	CreateDelivery()
	GetDelivery()
	GetDeliveries()
	EditDelivery()
	CancelDelivery()
	GetTimeline()
}

// DeliveryController 处理快递相关的请求
type DeliveryController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDeliveryController 创建一个新的快递控制器
func NewDeliveryController(ctx *gin.Context, container *container.ServiceContainer) *DeliveryController {
	return &DeliveryController{
		Ctx:       ctx,
		Container: container,
	}
}

// DeliveryRequest 表示快递登记请求
type DeliveryRequest struct {
	CourierName  string `json:"courier_name" binding:"required" example:"王师傅"`
	Phone        string `json:"phone" binding:"required" example:"9876543210"`
	Apartment    string `json:"apartment" binding:"required" example:"A-101"`
	Company      string `json:"company" example:"顺丰"`
	ExpectedTime string `json:"expected_time" example:"2026-08-29T15:00:00Z"` // RFC3339，可选
}

// UpdateDeliveryRequest 表示快递修改请求，空字段不修改
type UpdateDeliveryRequest struct {
	CourierName  *string `json:"courier_name" example:"李师傅"`
	Phone        *string `json:"phone" example:"9876543211"`
	Company      *string `json:"company" example:"京东"`
	ExpectedTime *string `json:"expected_time" example:"2026-08-29T16:00:00Z"`
}

// HandleDeliveryFunc 返回一个处理快递请求的Gin处理函数
func HandleDeliveryFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDeliveryController(ctx, container)

		switch method {
		case "createDelivery":
			controller.CreateDelivery()
		case "getDelivery":
			controller.GetDelivery()
		case "getDeliveries":
			controller.GetDeliveries()
		case "editDelivery":
			controller.EditDelivery()
		case "cancelDelivery":
			controller.CancelDelivery()
		case "getTimeline":
			controller.GetTimeline()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// residentScope 返回当前请求的归属居民ID，管理员为0表示不限制
func (c *DeliveryController) residentScope() uint {
	if middleware.CurrentRole(c.Ctx) == services.RoleResident {
		return middleware.CurrentUserID(c.Ctx)
	}
	return 0
}

// CreateDelivery 居民登记快递
// @Summary      登记快递
// @Description  居民登记预期的快递，签发通行码并短信通知快递员
// @Tags         Delivery
// @Accept       json
// @Produce      json
// @Param        request body DeliveryRequest true "快递信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /deliveries [post]
func (c *DeliveryController) CreateDelivery() {
	var req DeliveryRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	input := services.CreateDeliveryInput{
		ResidentID:  middleware.CurrentUserID(c.Ctx),
		CourierName: req.CourierName,
		Phone:       req.Phone,
		Apartment:   req.Apartment,
		Company:     req.Company,
	}
	if req.ExpectedTime != "" {
		t, err := time.Parse(time.RFC3339, req.ExpectedTime)
		if err != nil {
			response.ParamError(c.Ctx, "无效的预期送达时间")
			return
		}
		input.ExpectedTime = &t
	}

	deliveryService := c.Container.GetService("delivery").(services.InterfaceDeliveryService)
	delivery, err := deliveryService.CreateDeliveryRequest(input)
	if err != nil {
		if errors.Is(err, services.ErrPendingDeliveryExists) {
			response.FailWithMessage(c.Ctx, code.ErrDeliveryPendingExists, err.Error(), nil)
			return
		}
		handleServiceError(c.Ctx, err, "登记快递失败")
		return
	}

	response.Success(c.Ctx, delivery)
}

// GetDelivery 获取快递详情
// @Summary      获取快递详情
// @Description  根据ID获取快递记录，居民只能查看自己的
// @Tags         Delivery
// @Accept       json
// @Produce      json
// @Param        id path int true "快递ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /deliveries/{id} [get]
func (c *DeliveryController) GetDelivery() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	deliveryService := c.Container.GetService("delivery").(services.InterfaceDeliveryService)
	delivery, err := deliveryService.GetDeliveryByID(id, c.residentScope())
	if err != nil {
		handleServiceError(c.Ctx, err, "获取快递信息失败")
		return
	}

	response.Success(c.Ctx, delivery)
}

// GetDeliveries 获取快递列表
// @Summary      快递列表
// @Description  按状态过滤快递记录，居民只能查看自己的
// @Tags         Delivery
// @Accept       json
// @Produce      json
// @Param        status query string false "快递状态"
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /deliveries [get]
func (c *DeliveryController) GetDeliveries() {
	page, pageSize := parsePagination(c.Ctx)

	deliveryService := c.Container.GetService("delivery").(services.InterfaceDeliveryService)
	deliveries, total, err := deliveryService.GetAllDeliveries(
		c.Ctx.Query("status"), c.residentScope(), page, pageSize)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取快递列表失败")
		return
	}

	response.Success(c.Ctx, pageResult(total, page, pageSize, deliveries))
}

// EditDelivery 修改待处理的快递
// @Summary      修改快递
// @Description  修改待处理快递的信息，已放行的不允许修改
// @Tags         Delivery
// @Accept       json
// @Produce      json
// @Param        id path int true "快递ID"
// @Param        request body UpdateDeliveryRequest true "修改内容"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /deliveries/{id} [put]
func (c *DeliveryController) EditDelivery() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateDeliveryRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	input := services.EditDeliveryInput{
		CourierName: req.CourierName,
		Phone:       req.Phone,
		Company:     req.Company,
	}
	if req.ExpectedTime != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpectedTime)
		if err != nil {
			response.ParamError(c.Ctx, "无效的预期送达时间")
			return
		}
		input.ExpectedTime = &t
	}

	deliveryService := c.Container.GetService("delivery").(services.InterfaceDeliveryService)
	delivery, err := deliveryService.EditDelivery(id, c.residentScope(), input)
	if err != nil {
		handleServiceError(c.Ctx, err, "修改快递失败")
		return
	}

	response.Success(c.Ctx, delivery)
}

// CancelDelivery 取消待处理的快递
// @Summary      取消快递
// @Description  取消待处理的快递请求，通行码随之失效
// @Tags         Delivery
// @Accept       json
// @Produce      json
// @Param        id path int true "快递ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /deliveries/{id}/cancel [post]
func (c *DeliveryController) CancelDelivery() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	deliveryService := c.Container.GetService("delivery").(services.InterfaceDeliveryService)
	delivery, err := deliveryService.CancelDelivery(id, c.residentScope())
	if err != nil {
		handleServiceError(c.Ctx, err, "取消快递失败")
		return
	}

	response.Success(c.Ctx, delivery)
}

// GetTimeline 获取快递时间线
// @Summary      快递时间线
// @Description  按时间顺序返回快递的登记、进入、完成等事件
// @Tags         Delivery
// @Accept       json
// @Produce      json
// @Param        id path int true "快递ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /deliveries/{id}/timeline [get]
func (c *DeliveryController) GetTimeline() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	deliveryService := c.Container.GetService("delivery").(services.InterfaceDeliveryService)
	events, err := deliveryService.DeliveryTimeline(id, c.residentScope())
	if err != nil {
		handleServiceError(c.Ctx, err, "获取快递时间线失败")
		return
	}

	response.Success(c.Ctx, events)
}
