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
	// ErrPermissionDenied - 403: 权限不足.
	ErrPermissionDenied
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 409: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
	// ErrUserInactive - 403: 用户账户已停用.
	ErrUserInactive
)

// 物业相关错误码 (102xxx).
const (
	// ErrPropertyNotFound - 404: 物业不存在.
	ErrPropertyNotFound int = iota + 102000
	// ErrPropertyAlreadyExist - 400: 物业已存在.
	ErrPropertyAlreadyExist
	// ErrPropertyNotOwned - 403: 无权操作该物业.
	ErrPropertyNotOwned
	// ErrPropertyNotLeased - 400: 物业没有生效的租约.
	ErrPropertyNotLeased
)

// 租户相关错误码 (103xxx).
const (
	// ErrTenantNotFound - 404: 租户不存在.
	ErrTenantNotFound int = iota + 103000
	// ErrTenantAlreadyActive - 400: 该物业已有在租租户.
	ErrTenantAlreadyActive
	// ErrTenantStatusInvalid - 400: 租户状态转换不合法.
	ErrTenantStatusInvalid
)

// 维修工单相关错误码 (104xxx).
const (
	// ErrTicketNotFound - 404: 工单不存在.
	ErrTicketNotFound int = iota + 104000
	// ErrTicketStatusInvalid - 400: 工单状态转换不合法.
	ErrTicketStatusInvalid
)

// 支付相关错误码 (105xxx).
const (
	// ErrPaymentNotFound - 404: 支付记录不存在.
	ErrPaymentNotFound int = iota + 105000
	// ErrPaymentAlreadyPaid - 400: 支付已完成.
	ErrPaymentAlreadyPaid
	// ErrPaymentStatusInvalid - 400: 支付状态转换不合法.
	ErrPaymentStatusInvalid
	// ErrPaymentHistoryMissing - 500: 租户付款流水缺失.
	ErrPaymentHistoryMissing
)

// 文档相关错误码 (106xxx).
const (
	// ErrDocumentNotFound - 404: 文档不存在.
	ErrDocumentNotFound int = iota + 106000
	// ErrDocumentArchived - 400: 文档已归档.
	ErrDocumentArchived
)

// 数据库相关错误码 (107xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 107000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
