package controllers

import (
	"strconv"
	"time"

	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceVisitorController 定义访客控制器接口
type InterfaceVisitorController interface {
	InviteVisitor()
	GetVisitor()
	SearchVisitors()
	ListPending()
	DecideVisitor()
	ListLogs()
	ResendNotification()
}

// VisitorController 处理访客相关的请求
type VisitorController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewVisitorController 创建一个新的访客控制器
func NewVisitorController(ctx *gin.Context, container *container.ServiceContainer) *VisitorController {
	return &VisitorController{
		Ctx:       ctx,
		Container: container,
	}
}

// InviteVisitorRequest 表示居民预约访客请求
type InviteVisitorRequest struct {
	Name    string `json:"name" binding:"required" example:"张三"`
	Phone   string `json:"phone" binding:"required" example:"13812345678"`
	FlatNo  string `json:"flat_no" binding:"required" example:"A-101"`
	Purpose string `json:"purpose" example:"探亲"`
}

// DecideVisitorRequest 表示居民审批决定请求
type DecideVisitorRequest struct {
	Decision string `json:"decision" binding:"required" example:"approve"` // approve 或 deny
}

// HandleVisitorFunc 返回一个处理访客请求的Gin处理函数
func HandleVisitorFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewVisitorController(ctx, container)

		switch method {
		case "inviteVisitor":
			controller.InviteVisitor()
		case "getVisitor":
			controller.GetVisitor()
		case "searchVisitors":
			controller.SearchVisitors()
		case "listPending":
			controller.ListPending()
		case "decideVisitor":
			controller.DecideVisitor()
		case "listLogs":
			controller.ListLogs()
		case "resendNotification":
			controller.ResendNotification()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// InviteVisitor 居民预约访客
// @Summary      预约访客
// @Description  居民提前登记访客，直接签发通行码并短信通知访客
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        request body InviteVisitorRequest true "访客信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /visitors/invite [post]
func (c *VisitorController) InviteVisitor() {
	var req InviteVisitorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.InviteVisitor(services.InviteVisitorInput{
		ResidentID: middleware.CurrentUserID(c.Ctx),
		Name:       req.Name,
		Phone:      req.Phone,
		FlatNo:     req.FlatNo,
		Purpose:    req.Purpose,
	})
	if err != nil {
		handleServiceError(c.Ctx, err, "预约访客失败")
		return
	}

	response.Success(c.Ctx, visitor)
}

// GetVisitor 获取访客详情
// @Summary      获取访客详情
// @Description  根据ID获取访客记录
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        id path int true "访客ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /visitors/{id} [get]
func (c *VisitorController) GetVisitor() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.GetVisitorByID(id)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取访客信息失败")
		return
	}

	// 居民只能查看自己名下的访客
	if middleware.CurrentRole(c.Ctx) == services.RoleResident &&
		visitor.ResidentID != middleware.CurrentUserID(c.Ctx) {
		response.NotFound(c.Ctx, "访客记录不存在")
		return
	}

	response.Success(c.Ctx, visitor)
}

// SearchVisitors 按姓名搜索访客
// @Summary      搜索访客
// @Description  管理端按姓名模糊搜索访客记录
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        name query string true "姓名关键词"
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /visitors [get]
func (c *VisitorController) SearchVisitors() {
	page, pageSize := parsePagination(c.Ctx)

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitors, total, err := visitorService.SearchVisitorsByName(c.Ctx.Query("name"), page, pageSize)
	if err != nil {
		handleServiceError(c.Ctx, err, "搜索访客失败")
		return
	}

	response.Success(c.Ctx, pageResult(total, page, pageSize, visitors))
}

// ListPending 获取待审批访客列表
// @Summary      待审批列表
// @Description  居民查看自己名下待审批的访客，管理员查看全部
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /visitors/pending [get]
func (c *VisitorController) ListPending() {
	page, pageSize := parsePagination(c.Ctx)

	var residentID *uint
	if middleware.CurrentRole(c.Ctx) == services.RoleResident {
		uid := middleware.CurrentUserID(c.Ctx)
		residentID = &uid
	}

	approvalService := c.Container.GetService("approval").(services.InterfaceApprovalService)
	visitors, total, err := approvalService.ListPending(residentID, page, pageSize)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取待审批列表失败")
		return
	}

	response.Success(c.Ctx, pageResult(total, page, pageSize, visitors))
}

// DecideVisitor 居民审批访客
// @Summary      审批访客
// @Description  居民批准或拒绝待审批的访客，重复处理会被拒绝
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        id path int true "访客ID"
// @Param        request body DecideVisitorRequest true "审批决定"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /visitors/{id}/decision [post]
func (c *VisitorController) DecideVisitor() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req DecideVisitorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	// 管理员可以代替任何居民处理，residentID传0跳过归属校验
	var residentID uint
	if middleware.CurrentRole(c.Ctx) == services.RoleResident {
		residentID = middleware.CurrentUserID(c.Ctx)
	}

	approvalService := c.Container.GetService("approval").(services.InterfaceApprovalService)
	visitor, err := approvalService.Decide(id, services.Decision(req.Decision), residentID)
	if err != nil {
		handleServiceError(c.Ctx, err, "审批处理失败")
		return
	}

	response.Success(c.Ctx, visitor)
}

// ListLogs 获取访客进出台账
// @Summary      访客台账
// @Description  按状态、居民和时间范围过滤访客进出记录
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        status query string false "访客状态"
// @Param        resident_id query int false "居民ID"
// @Param        start_time query string false "开始时间，RFC3339格式"
// @Param        end_time query string false "结束时间，RFC3339格式"
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /visitors/logs [get]
func (c *VisitorController) ListLogs() {
	page, pageSize := parsePagination(c.Ctx)

	filter := services.LogFilter{
		Status:   c.Ctx.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}

	// 居民只能查看自己名下的记录
	if middleware.CurrentRole(c.Ctx) == services.RoleResident {
		uid := middleware.CurrentUserID(c.Ctx)
		filter.ResidentID = &uid
	} else if raw := c.Ctx.Query("resident_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.ParamError(c.Ctx, "无效的居民ID")
			return
		}
		rid := uint(id)
		filter.ResidentID = &rid
	}

	if raw := c.Ctx.Query("start_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.ParamError(c.Ctx, "无效的开始时间")
			return
		}
		filter.StartTime = &t
	}
	if raw := c.Ctx.Query("end_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.ParamError(c.Ctx, "无效的结束时间")
			return
		}
		filter.EndTime = &t
	}

	ledgerService := c.Container.GetService("ledger").(services.InterfaceLedgerService)
	visitors, total, err := ledgerService.ListVisitorLogs(filter)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取访客台账失败")
		return
	}

	response.Success(c.Ctx, pageResult(total, page, pageSize, visitors))
}

// ResendNotification 重发访客通知
// @Summary      重发通知
// @Description  重发访客通行码短信或居民审批提醒
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        id path int true "访客ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /visitors/{id}/resend [post]
func (c *VisitorController) ResendNotification() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var residentID uint
	if middleware.CurrentRole(c.Ctx) == services.RoleResident {
		residentID = middleware.CurrentUserID(c.Ctx)
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	if err := visitorService.ResendNotification(id, residentID); err != nil {
		handleServiceError(c.Ctx, err, "重发通知失败")
		return
	}

	response.Success(c.Ctx, nil)
}
