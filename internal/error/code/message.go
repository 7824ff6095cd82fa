package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求频率过高",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户密码错误",

	// 访客相关错误码
	ErrVisitorNotFound:       "访客记录不存在",
	ErrVisitorInvalidState:   "访客当前状态不允许该操作",
	ErrVisitorAlreadyEntered: "访客已进入，请勿重复登记",
	ErrVisitorDecided:        "访客审批已处理",

	// 快递相关错误码
	ErrDeliveryNotFound:      "快递申请不存在",
	ErrDeliveryInvalidState:  "快递当前状态不允许该操作",
	ErrDeliveryPendingExists: "已存在待处理的快递申请",

	// 居民相关错误码
	ErrResidentNotFound:     "居民不存在",
	ErrResidentAlreadyExist: "居民已存在",
	ErrFlatNotFound:         "房号没有对应居民",

	// 通行码相关错误码
	ErrCodeNotFound: "通行码不存在",
	ErrCodeConflict: "通行码冲突，请重试",

	// 并发冲突错误码
	ErrConflict: "记录已被其他请求修改，请刷新后重试",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",

	// 车辆相关错误码
	ErrVehicleNotFound:     "车辆记录不存在",
	ErrVehicleInvalidState: "车辆当前状态不允许该操作",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// 访客相关错误码
	ErrVisitorNotFound:       StatusNotFound,
	ErrVisitorInvalidState:   StatusBadRequest,
	ErrVisitorAlreadyEntered: StatusConflict,
	ErrVisitorDecided:        StatusBadRequest,

	// 快递相关错误码
	ErrDeliveryNotFound:      StatusNotFound,
	ErrDeliveryInvalidState:  StatusBadRequest,
	ErrDeliveryPendingExists: StatusBadRequest,

	// 居民相关错误码
	ErrResidentNotFound:     StatusNotFound,
	ErrResidentAlreadyExist: StatusBadRequest,
	ErrFlatNotFound:         StatusNotFound,

	// 通行码相关错误码
	ErrCodeNotFound: StatusNotFound,
	ErrCodeConflict: StatusConflict,

	// 并发冲突错误码
	ErrConflict: StatusConflict,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// 车辆相关错误码
	ErrVehicleNotFound:     StatusNotFound,
	ErrVehicleInvalidState: StatusBadRequest,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
