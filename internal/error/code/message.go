package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:          "成功",
	ErrUnknown:          "未知错误",
	ErrBind:             "请求参数绑定错误",
	ErrValidation:       "请求参数验证错误",
	ErrTokenInvalid:     "无效的认证令牌",
	ErrPermissionDenied: "权限不足",
	ErrTooManyRequests:  "请求频率过高",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "该邮箱已被注册",
	ErrUserPasswordIncorrect: "用户密码错误",
	ErrUserInactive:          "用户账户已停用",

	// 物业相关错误码
	ErrPropertyNotFound:     "物业不存在",
	ErrPropertyAlreadyExist: "物业已存在",
	ErrPropertyNotOwned:     "无权操作该物业",
	ErrPropertyNotLeased:    "物业没有生效的租约，不能标记为已出租",

	// 租户相关错误码
	ErrTenantNotFound:      "租户不存在",
	ErrTenantAlreadyActive: "该物业已有在租租户",
	ErrTenantStatusInvalid: "租户状态转换不合法",

	// 维修工单相关错误码
	ErrTicketNotFound:      "工单不存在",
	ErrTicketStatusInvalid: "工单状态转换不合法",

	// 支付相关错误码
	ErrPaymentNotFound:       "支付记录不存在",
	ErrPaymentAlreadyPaid:    "该支付已完成，不能重复支付",
	ErrPaymentStatusInvalid:  "支付状态转换不合法",
	ErrPaymentHistoryMissing: "租户付款流水缺失",

	// 文档相关错误码
	ErrDocumentNotFound: "文档不存在",
	ErrDocumentArchived: "文档已归档",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrBind:             StatusBadRequest,
	ErrValidation:       StatusBadRequest,
	ErrTokenInvalid:     StatusUnauthorized,
	ErrPermissionDenied: StatusForbidden,
	ErrTooManyRequests:  StatusTooManyRequests,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusConflict,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrUserInactive:          StatusForbidden,

	// 物业相关错误码
	ErrPropertyNotFound:     StatusNotFound,
	ErrPropertyAlreadyExist: StatusBadRequest,
	ErrPropertyNotOwned:     StatusForbidden,
	ErrPropertyNotLeased:    StatusBadRequest,

	// 租户相关错误码
	ErrTenantNotFound:      StatusNotFound,
	ErrTenantAlreadyActive: StatusBadRequest,
	ErrTenantStatusInvalid: StatusBadRequest,

	// 维修工单相关错误码
	ErrTicketNotFound:      StatusNotFound,
	ErrTicketStatusInvalid: StatusBadRequest,

	// 支付相关错误码
	ErrPaymentNotFound:       StatusNotFound,
	ErrPaymentAlreadyPaid:    StatusBadRequest,
	ErrPaymentStatusInvalid:  StatusBadRequest,
	ErrPaymentHistoryMissing: StatusInternalServerError,

	// 文档相关错误码
	ErrDocumentNotFound: StatusNotFound,
	ErrDocumentArchived: StatusBadRequest,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
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
