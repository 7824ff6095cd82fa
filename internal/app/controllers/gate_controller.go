package controllers

import (
	"io"

	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceGateController 定义闸口控制器接口
type InterfaceGateController interface {
	ValidateCode()
	SearchByName()
	SubmitForApproval()
	RecordVisitorEntry()
	RecordVisitorExit()
	RecordDeliveryEntry()
	RecordDeliveryExit()
}

// GateController 处理保安在闸口的查验、登记与放行请求
type GateController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewGateController 创建一个新的闸口控制器
func NewGateController(ctx *gin.Context, container *container.ServiceContainer) *GateController {
	return &GateController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleGateFunc 返回一个处理闸口请求的Gin处理函数
func HandleGateFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewGateController(ctx, container)

		switch method {
		case "validateCode":
			controller.ValidateCode()
		case "searchByName":
			controller.SearchByName()
		case "submitForApproval":
			controller.SubmitForApproval()
		case "recordVisitorEntry":
			controller.RecordVisitorEntry()
		case "recordVisitorExit":
			controller.RecordVisitorExit()
		case "recordDeliveryEntry":
			controller.RecordDeliveryEntry()
		case "recordDeliveryExit":
			controller.RecordDeliveryExit()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// ValidateCode 扫码查验通行码
// @Summary      查验通行码
// @Description  根据通行码查找对应的访客或快递记录，未命中不算错误
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        code query string true "通行码"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /gate/validate [get]
func (c *GateController) ValidateCode() {
	codeStr := c.Ctx.Query("code")
	if codeStr == "" {
		response.ParamError(c.Ctx, "通行码不能为空")
		return
	}

	validationService := c.Container.GetService("validation").(services.InterfaceValidationService)
	outcome, err := validationService.ValidateCode(codeStr)
	if err != nil {
		handleServiceError(c.Ctx, err, "查验通行码失败")
		return
	}

	response.Success(c.Ctx, outcome)
}

// SearchByName 按姓名查找访客
// @Summary      按姓名查验
// @Description  访客无码时按姓名模糊查找有效的访客或快递记录
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        name query string true "访客姓名"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /gate/search [get]
func (c *GateController) SearchByName() {
	name := c.Ctx.Query("name")
	if name == "" {
		response.ParamError(c.Ctx, "姓名不能为空")
		return
	}

	validationService := c.Container.GetService("validation").(services.InterfaceValidationService)
	outcome, err := validationService.SearchByName(name)
	if err != nil {
		handleServiceError(c.Ctx, err, "查找访客失败")
		return
	}

	response.Success(c.Ctx, outcome)
}

// SubmitForApproval 登记未预约访客并提交居民审批
// @Summary      提交审批
// @Description  现场采集访客信息和证据照片，创建待审批记录并通知负责居民
// @Tags         Gate
// @Accept       multipart/form-data
// @Produce      json
// @Param        name formData string true "访客姓名"
// @Param        phone formData string true "访客电话"
// @Param        flat_no formData string true "到访房号"
// @Param        purpose formData string false "到访事由"
// @Param        image formData file true "证据照片"
// @Security     BearerAuth
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /gate/approvals [post]
func (c *GateController) SubmitForApproval() {
	input := services.SubmitApprovalInput{
		Name:    c.Ctx.PostForm("name"),
		Phone:   c.Ctx.PostForm("phone"),
		FlatNo:  c.Ctx.PostForm("flat_no"),
		Purpose: c.Ctx.PostForm("purpose"),
	}
	if guardID := middleware.CurrentUserID(c.Ctx); guardID != 0 {
		input.GuardID = &guardID
	}

	fileHeader, err := c.Ctx.FormFile("image")
	if err == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			response.ParamError(c.Ctx, "证据照片读取失败")
			return
		}
		defer file.Close()

		data, readErr := io.ReadAll(file)
		if readErr != nil {
			response.ParamError(c.Ctx, "证据照片读取失败")
			return
		}
		input.ImageData = data
		input.ImageContentType = fileHeader.Header.Get("Content-Type")
	}

	approvalService := c.Container.GetService("approval").(services.InterfaceApprovalService)
	visitor, err := approvalService.SubmitForApproval(input)
	if err != nil {
		handleServiceError(c.Ctx, err, "提交审批失败")
		return
	}

	response.Success(c.Ctx, visitor)
}

// RecordVisitorEntry 登记访客进入
// @Summary      访客进入
// @Description  已批准的访客通过闸口，记录进入时间
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        id path int true "访客ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /gate/visitors/{id}/entry [post]
func (c *GateController) RecordVisitorEntry() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var guardID *uint
	if uid := middleware.CurrentUserID(c.Ctx); uid != 0 {
		guardID = &uid
	}

	ledgerService := c.Container.GetService("ledger").(services.InterfaceLedgerService)
	visitor, err := ledgerService.RecordVisitorEntry(id, guardID)
	if err != nil {
		handleServiceError(c.Ctx, err, "登记进入失败")
		return
	}

	response.Success(c.Ctx, visitor)
}

// RecordVisitorExit 登记访客离开
// @Summary      访客离开
// @Description  已进入的访客离开小区，记录离开时间
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        id path int true "访客ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /gate/visitors/{id}/exit [post]
func (c *GateController) RecordVisitorExit() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	ledgerService := c.Container.GetService("ledger").(services.InterfaceLedgerService)
	visitor, err := ledgerService.RecordVisitorExit(id)
	if err != nil {
		handleServiceError(c.Ctx, err, "登记离开失败")
		return
	}

	response.Success(c.Ctx, visitor)
}

// RecordDeliveryEntry 登记快递员进入
// @Summary      快递进入
// @Description  快递员凭通行码进入小区，记录进入时间
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        id path int true "快递ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /gate/deliveries/{id}/entry [post]
func (c *GateController) RecordDeliveryEntry() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	ledgerService := c.Container.GetService("ledger").(services.InterfaceLedgerService)
	delivery, err := ledgerService.RecordDeliveryEntry(id)
	if err != nil {
		handleServiceError(c.Ctx, err, "登记进入失败")
		return
	}

	response.Success(c.Ctx, delivery)
}

// RecordDeliveryExit 登记快递员离开
// @Summary      快递离开
// @Description  快递员完成配送离开小区，记录离开时间
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        id path int true "快递ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /gate/deliveries/{id}/exit [post]
func (c *GateController) RecordDeliveryExit() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	ledgerService := c.Container.GetService("ledger").(services.InterfaceLedgerService)
	delivery, err := ledgerService.RecordDeliveryExit(id)
	if err != nil {
		handleServiceError(c.Ctx, err, "登记离开失败")
		return
	}

	response.Success(c.Ctx, delivery)
}
