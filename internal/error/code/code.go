package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusConflict - 409: 资源冲突.
	StatusConflict = 409
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
)

// 访客相关错误码 (102xxx).
const (
	// ErrVisitorNotFound - 404: 访客记录不存在.
	ErrVisitorNotFound int = iota + 102000
	// ErrVisitorInvalidState - 400: 访客状态不允许该操作.
	ErrVisitorInvalidState
	// ErrVisitorAlreadyEntered - 409: 访客已进入.
	ErrVisitorAlreadyEntered
	// ErrVisitorDecided - 400: 访客审批已处理.
	ErrVisitorDecided
)

// 快递相关错误码 (103xxx).
const (
	// ErrDeliveryNotFound - 404: 快递申请不存在.
	ErrDeliveryNotFound int = iota + 103000
	// ErrDeliveryInvalidState - 400: 快递状态不允许该操作.
	ErrDeliveryInvalidState
	// ErrDeliveryPendingExists - 400: 已存在待处理的快递申请.
	ErrDeliveryPendingExists
)

// 居民相关错误码 (104xxx).
const (
	// ErrResidentNotFound - 404: 居民不存在.
	ErrResidentNotFound int = iota + 104000
	// ErrResidentAlreadyExist - 400: 居民已存在.
	ErrResidentAlreadyExist
	// ErrFlatNotFound - 404: 房号没有对应居民.
	ErrFlatNotFound
)

// 通行码相关错误码 (105xxx).
const (
	// ErrCodeNotFound - 404: 通行码不存在.
	ErrCodeNotFound int = iota + 105000
	// ErrCodeConflict - 409: 通行码冲突.
	ErrCodeConflict
)

// 并发冲突错误码 (106xxx).
const (
	// ErrConflict - 409: 记录已被其他请求修改.
	ErrConflict int = iota + 106000
)

// 数据库相关错误码 (107xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 107000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)

// 车辆相关错误码 (108xxx).
const (
	// ErrVehicleNotFound - 404: 车辆记录不存在.
	ErrVehicleNotFound int = iota + 108000
	// ErrVehicleInvalidState - 400: 车辆状态不允许该操作.
	ErrVehicleInvalidState
)
