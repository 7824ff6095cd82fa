package controllers

import (
	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceVehicleController 定义车辆控制器接口
type InterfaceVehicleController interface {
	RegisterVehicle()
	RemoveVehicle()
	GetMyVehicles()
	RecordEntry()
	RecordExit()
	GetMovements()
}

// VehicleController 处理车辆相关的请求
type VehicleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewVehicleController 创建一个新的车辆控制器
func NewVehicleController(ctx *gin.Context, container *container.ServiceContainer) *VehicleController {
	return &VehicleController{
		Ctx:       ctx,
		Container: container,
	}
}

// RegisterVehicleRequest 表示车辆登记请求
type RegisterVehicleRequest struct {
	PlateNo     string `json:"plate_no" binding:"required" example:"MH12AB1234"`
	VehicleType string `json:"vehicle_type" binding:"required" example:"car"` // car, bike, scooter, truck, van
	IsGuest     bool   `json:"is_guest" example:"false"`
}

// VehicleMovementRequest 表示闸口车辆进出登记请求
type VehicleMovementRequest struct {
	PlateNo string `json:"plate_no" binding:"required" example:"MH12AB1234"`
	Notes   string `json:"notes" example:"访客车辆"`
}

// HandleVehicleFunc 返回一个处理车辆请求的Gin处理函数
func HandleVehicleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewVehicleController(ctx, container)

		switch method {
		case "registerVehicle":
			controller.RegisterVehicle()
		case "removeVehicle":
			controller.RemoveVehicle()
		case "getMyVehicles":
			controller.GetMyVehicles()
		case "recordEntry":
			controller.RecordEntry()
		case "recordExit":
			controller.RecordExit()
		case "getMovements":
			controller.GetMovements()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// RegisterVehicle 居民登记车辆
// @Summary      登记车辆
// @Description  居民登记名下车辆，车牌全小区唯一
// @Tags         Vehicle
// @Accept       json
// @Produce      json
// @Param        request body RegisterVehicleRequest true "车辆信息"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /vehicles [post]
func (c *VehicleController) RegisterVehicle() {
	var req RegisterVehicleRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicle, err := vehicleService.RegisterVehicle(services.RegisterVehicleInput{
		ResidentID:  middleware.CurrentUserID(c.Ctx),
		PlateNo:     req.PlateNo,
		VehicleType: req.VehicleType,
		IsGuest:     req.IsGuest,
	})
	if err != nil {
		handleServiceError(c.Ctx, err, "登记车辆失败")
		return
	}

	response.Success(c.Ctx, vehicle)
}

// RemoveVehicle 删除车辆登记
// @Summary      删除车辆
// @Description  删除车辆登记记录，在场车辆不允许删除
// @Tags         Vehicle
// @Accept       json
// @Produce      json
// @Param        id path int true "车辆ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /vehicles/{id} [delete]
func (c *VehicleController) RemoveVehicle() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var residentID uint
	if middleware.CurrentRole(c.Ctx) == services.RoleResident {
		residentID = middleware.CurrentUserID(c.Ctx)
	}

	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	if err := vehicleService.RemoveVehicle(id, residentID); err != nil {
		handleServiceError(c.Ctx, err, "删除车辆失败")
		return
	}

	response.Success(c.Ctx, nil)
}

// GetMyVehicles 获取当前居民的车辆列表
// @Summary      我的车辆
// @Description  获取当前登录居民名下的所有车辆
// @Tags         Vehicle
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /vehicles [get]
func (c *VehicleController) GetMyVehicles() {
	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicles, err := vehicleService.GetVehiclesByResident(middleware.CurrentUserID(c.Ctx))
	if err != nil {
		handleServiceError(c.Ctx, err, "获取车辆列表失败")
		return
	}

	response.Success(c.Ctx, vehicles)
}

// RecordEntry 闸口登记车辆进入
// @Summary      车辆进入
// @Description  保安按车牌登记车辆进入，重复进入会被拒绝
// @Tags         Vehicle
// @Accept       json
// @Produce      json
// @Param        request body VehicleMovementRequest true "车牌与备注"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /vehicles/entry [post]
func (c *VehicleController) RecordEntry() {
	var req VehicleMovementRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	var guardID *uint
	if uid := middleware.CurrentUserID(c.Ctx); uid != 0 {
		guardID = &uid
	}

	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicle, err := vehicleService.RecordVehicleEntry(req.PlateNo, guardID, req.Notes)
	if err != nil {
		handleServiceError(c.Ctx, err, "登记车辆进入失败")
		return
	}

	response.Success(c.Ctx, vehicle)
}

// RecordExit 闸口登记车辆离开
// @Summary      车辆离开
// @Description  保安按车牌登记车辆离开，未入场的车辆会被拒绝
// @Tags         Vehicle
// @Accept       json
// @Produce      json
// @Param        request body VehicleMovementRequest true "车牌与备注"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /vehicles/exit [post]
func (c *VehicleController) RecordExit() {
	var req VehicleMovementRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	var guardID *uint
	if uid := middleware.CurrentUserID(c.Ctx); uid != 0 {
		guardID = &uid
	}

	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicle, err := vehicleService.RecordVehicleExit(req.PlateNo, guardID, req.Notes)
	if err != nil {
		handleServiceError(c.Ctx, err, "登记车辆离开失败")
		return
	}

	response.Success(c.Ctx, vehicle)
}

// GetMovements 获取车辆进出记录
// @Summary      车辆进出记录
// @Description  按车辆ID获取进出记录，最新的优先
// @Tags         Vehicle
// @Accept       json
// @Produce      json
// @Param        id path int true "车辆ID"
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /vehicles/{id}/movements [get]
func (c *VehicleController) GetMovements() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	page, pageSize := parsePagination(c.Ctx)

	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	movements, total, err := vehicleService.ListMovements(id, page, pageSize)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取车辆进出记录失败")
		return
	}

	response.Success(c.Ctx, pageResult(total, page, pageSize, movements))
}
