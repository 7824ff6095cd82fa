package controllers

import (
	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceResidentController 定义居民控制器接口
type InterfaceResidentController interface {
	GetResidents()
	GetResident()
	CreateResident()
	UpdateResident()
	DeleteResident()
}

// ResidentController 处理居民账户相关的请求
type ResidentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewResidentController 创建一个新的居民控制器
func NewResidentController(ctx *gin.Context, container *container.ServiceContainer) *ResidentController {
	return &ResidentController{
		Ctx:       ctx,
		Container: container,
	}
}

// ResidentRequest 表示居民创建请求
type ResidentRequest struct {
	Name     string `json:"name" binding:"required" example:"张三"`
	Email    string `json:"email" binding:"omitempty,email" example:"zhangsan@example.com"`
	Phone    string `json:"phone" binding:"required" example:"13812345678"`
	Password string `json:"password" binding:"required" example:"secret123"`
	FlatNo   string `json:"flat_no" binding:"required" example:"A-101"`
}

// UpdateResidentRequest 表示居民更新请求
type UpdateResidentRequest struct {
	Name     string `json:"name" example:"李四"`
	Email    string `json:"email" binding:"omitempty,email" example:"lisi@example.com"`
	Phone    string `json:"phone" example:"13987654321"`
	Password string `json:"password" example:"newsecret"`
	FlatNo   string `json:"flat_no" example:"B-202"`
}

// HandleResidentFunc 返回一个处理居民请求的Gin处理函数
func HandleResidentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewResidentController(ctx, container)

		switch method {
		case "getResidents":
			controller.GetResidents()
		case "getResident":
			controller.GetResident()
		case "createResident":
			controller.CreateResident()
		case "updateResident":
			controller.UpdateResident()
		case "deleteResident":
			controller.DeleteResident()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetResidents 获取居民列表
// @Summary      获取居民列表
// @Description  分页获取所有居民
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /residents [get]
func (c *ResidentController) GetResidents() {
	page, pageSize := parsePagination(c.Ctx)

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	residents, total, err := residentService.GetAllResidents(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取居民列表失败", nil)
		return
	}

	response.Success(c.Ctx, pageResult(total, page, pageSize, residents))
}

// GetResident 获取居民详情
// @Summary      获取居民详情
// @Description  根据ID获取特定居民的详细信息
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        id path int true "居民ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [get]
func (c *ResidentController) GetResident() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.GetResidentByID(id)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取居民信息失败")
		return
	}

	response.Success(c.Ctx, resident)
}

// CreateResident 创建居民
// @Summary      创建居民
// @Description  创建新的居民账户，手机号和房号全小区唯一
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        request body ResidentRequest true "居民信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /residents [post]
func (c *ResidentController) CreateResident() {
	var req ResidentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	resident := &models.Resident{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		FlatNo:   req.FlatNo,
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	if err := residentService.CreateResident(resident); err != nil {
		handleServiceError(c.Ctx, err, "创建居民失败")
		return
	}

	response.Success(c.Ctx, resident)
}

// UpdateResident 更新居民
// @Summary      更新居民
// @Description  更新现有居民的信息
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        id path int true "居民ID"
// @Param        request body UpdateResidentRequest true "更新的居民信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [put]
func (c *ResidentController) UpdateResident() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateResidentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Password != "" {
		hashed, err := models.HashPassword(req.Password)
		if err != nil {
			response.FailWithMessage(c.Ctx, code.ErrUnknown, "密码加密失败", nil)
			return
		}
		updates["password"] = hashed
	}
	if req.FlatNo != "" {
		updates["flat_no"] = req.FlatNo
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.UpdateResident(id, updates)
	if err != nil {
		handleServiceError(c.Ctx, err, "更新居民失败")
		return
	}

	response.Success(c.Ctx, resident)
}

// DeleteResident 删除居民
// @Summary      删除居民
// @Description  删除指定ID的居民
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        id path int true "居民ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [delete]
func (c *ResidentController) DeleteResident() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	if err := residentService.DeleteResident(id); err != nil {
		handleServiceError(c.Ctx, err, "删除居民失败")
		return
	}

	response.Success(c.Ctx, nil)
}
