package controllers

import (
	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAdminController 定义管理员控制器接口
type InterfaceAdminController interface {
	GetAdmins()
	GetAdmin()
	CreateAdmin()
	UpdateAdmin()
	DeleteAdmin()
}

// AdminController 处理管理员账户相关的请求
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理员控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// AdminRequest 表示管理员创建请求
type AdminRequest struct {
	Username string `json:"username" binding:"required" example:"admin2"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Email    string `json:"email" binding:"omitempty,email" example:"admin@example.com"`
	Phone    string `json:"phone" example:"13612345678"`
}

// UpdateAdminRequest 表示管理员更新请求
type UpdateAdminRequest struct {
	Username string `json:"username" example:"admin3"`
	Password string `json:"password" example:"newsecret"`
	Email    string `json:"email" binding:"omitempty,email" example:"admin3@example.com"`
	Phone    string `json:"phone" example:"13687654321"`
	Status   string `json:"status" example:"active"`
}

// HandleAdminFunc 返回一个处理管理员请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getAdmins":
			controller.GetAdmins()
		case "getAdmin":
			controller.GetAdmin()
		case "createAdmin":
			controller.CreateAdmin()
		case "updateAdmin":
			controller.UpdateAdmin()
		case "deleteAdmin":
			controller.DeleteAdmin()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetAdmins 获取管理员列表
// @Summary      获取管理员列表
// @Description  分页获取所有管理员，支持搜索
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Param        search query string false "搜索关键词"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /admins [get]
func (c *AdminController) GetAdmins() {
	page, pageSize := parsePagination(c.Ctx)

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admins, total, err := adminService.GetAllAdmins(page, pageSize, c.Ctx.Query("search"))
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取管理员列表失败", nil)
		return
	}

	response.Success(c.Ctx, pageResult(total, page, pageSize, admins))
}

// GetAdmin 获取管理员详情
// @Summary      获取管理员详情
// @Description  根据ID获取特定管理员的详细信息
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "管理员ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admins/{id} [get]
func (c *AdminController) GetAdmin() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admin, err := adminService.GetAdminByID(id)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取管理员信息失败")
		return
	}

	response.Success(c.Ctx, admin)
}

// CreateAdmin 创建管理员
// @Summary      创建管理员
// @Description  创建新的管理员账户
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body AdminRequest true "管理员信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /admins [post]
func (c *AdminController) CreateAdmin() {
	var req AdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	admin := &models.Admin{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.CreateAdmin(admin); err != nil {
		handleServiceError(c.Ctx, err, "创建管理员失败")
		return
	}

	response.Success(c.Ctx, admin)
}

// UpdateAdmin 更新管理员
// @Summary      更新管理员
// @Description  更新现有管理员的信息
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "管理员ID"
// @Param        request body UpdateAdminRequest true "更新的管理员信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admins/{id} [put]
func (c *AdminController) UpdateAdmin() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateAdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	updates := make(map[string]interface{})
	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.Password != "" {
		updates["password"] = req.Password
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admin, err := adminService.UpdateAdmin(id, updates)
	if err != nil {
		handleServiceError(c.Ctx, err, "更新管理员失败")
		return
	}

	response.Success(c.Ctx, admin)
}

// DeleteAdmin 删除管理员
// @Summary      删除管理员
// @Description  删除指定ID的管理员，系统至少保留一个管理员
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "管理员ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admins/{id} [delete]
func (c *AdminController) DeleteAdmin() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.DeleteAdmin(id); err != nil {
		handleServiceError(c.Ctx, err, "删除管理员失败")
		return
	}

	response.Success(c.Ctx, nil)
}
