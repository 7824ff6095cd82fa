package controllers

import (
	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceGuardController 定义保安控制器接口
type InterfaceGuardController interface {
	GetGuards()
	GetGuard()
	CreateGuard()
	UpdateGuard()
	DeleteGuard()
}

// GuardController 处理保安账户相关的请求
type GuardController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewGuardController 创建一个新的保安控制器
func NewGuardController(ctx *gin.Context, container *container.ServiceContainer) *GuardController {
	return &GuardController{
		Ctx:       ctx,
		Container: container,
	}
}

// GuardRequest 表示保安创建请求
type GuardRequest struct {
	Name     string `json:"name" binding:"required" example:"赵勇"`
	Username string `json:"username" binding:"required" example:"guard01"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Phone    string `json:"phone" binding:"required" example:"13712345678"`
	Shift    string `json:"shift" example:"day"` // day, night
	Remark   string `json:"remark" example:"东门岗"`
}

// UpdateGuardRequest 表示保安更新请求
type UpdateGuardRequest struct {
	Name     string `json:"name" example:"钱进"`
	Username string `json:"username" example:"guard02"`
	Password string `json:"password" example:"newsecret"`
	Phone    string `json:"phone" example:"13787654321"`
	Shift    string `json:"shift" example:"night"`
	Status   string `json:"status" example:"active"`
	Remark   string `json:"remark" example:"北门岗"`
}

// HandleGuardFunc 返回一个处理保安请求的Gin处理函数
func HandleGuardFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewGuardController(ctx, container)

		switch method {
		case "getGuards":
			controller.GetGuards()
		case "getGuard":
			controller.GetGuard()
		case "createGuard":
			controller.CreateGuard()
		case "updateGuard":
			controller.UpdateGuard()
		case "deleteGuard":
			controller.DeleteGuard()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetGuards 获取保安列表
// @Summary      获取保安列表
// @Description  分页获取所有保安，支持按姓名、用户名、电话搜索
// @Tags         Guard
// @Accept       json
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Param        search query string false "搜索关键词"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /guards [get]
func (c *GuardController) GetGuards() {
	page, pageSize := parsePagination(c.Ctx)

	guardService := c.Container.GetService("guard").(services.InterfaceGuardService)
	guards, total, err := guardService.GetAllGuards(page, pageSize, c.Ctx.Query("search"))
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取保安列表失败", nil)
		return
	}

	response.Success(c.Ctx, pageResult(total, page, pageSize, guards))
}

// GetGuard 获取保安详情
// @Summary      获取保安详情
// @Description  根据ID获取特定保安的详细信息
// @Tags         Guard
// @Accept       json
// @Produce      json
// @Param        id path int true "保安ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /guards/{id} [get]
func (c *GuardController) GetGuard() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	guardService := c.Container.GetService("guard").(services.InterfaceGuardService)
	guard, err := guardService.GetGuardByID(id)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取保安信息失败")
		return
	}

	response.Success(c.Ctx, guard)
}

// CreateGuard 创建保安
// @Summary      创建保安
// @Description  创建新的保安账户，用户名和手机号唯一
// @Tags         Guard
// @Accept       json
// @Produce      json
// @Param        request body GuardRequest true "保安信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /guards [post]
func (c *GuardController) CreateGuard() {
	var req GuardRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	guard := &models.SecurityGuard{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
		Shift:    req.Shift,
		Remark:   req.Remark,
	}

	guardService := c.Container.GetService("guard").(services.InterfaceGuardService)
	if err := guardService.CreateGuard(guard); err != nil {
		handleServiceError(c.Ctx, err, "创建保安失败")
		return
	}

	response.Success(c.Ctx, guard)
}

// UpdateGuard 更新保安
// @Summary      更新保安
// @Description  更新现有保安的信息
// @Tags         Guard
// @Accept       json
// @Produce      json
// @Param        id path int true "保安ID"
// @Param        request body UpdateGuardRequest true "更新的保安信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /guards/{id} [put]
func (c *GuardController) UpdateGuard() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateGuardRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.Password != "" {
		updates["password"] = req.Password
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Shift != "" {
		updates["shift"] = req.Shift
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Remark != "" {
		updates["remark"] = req.Remark
	}

	guardService := c.Container.GetService("guard").(services.InterfaceGuardService)
	guard, err := guardService.UpdateGuard(id, updates)
	if err != nil {
		handleServiceError(c.Ctx, err, "更新保安失败")
		return
	}

	response.Success(c.Ctx, guard)
}

// DeleteGuard 删除保安
// @Summary      删除保安
// @Description  删除指定ID的保安
// @Tags         Guard
// @Accept       json
// @Produce      json
// @Param        id path int true "保安ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /guards/{id} [delete]
func (c *GuardController) DeleteGuard() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	guardService := c.Container.GetService("guard").(services.InterfaceGuardService)
	if err := guardService.DeleteGuard(id); err != nil {
		handleServiceError(c.Ctx, err, "删除保安失败")
		return
	}

	response.Success(c.Ctx, nil)
}
