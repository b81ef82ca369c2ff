package tarot

import (
	"errors"
	"net/http"

	"tarot-trader/app/requests"
	service "tarot-trader/app/services/tarot"
	"tarot-trader/pkg/logger"
	"tarot-trader/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor 会话错误对应的 HTTP 状态码与提示
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "阅读记录不存在"
	case errors.Is(err, service.ErrNoActiveReading):
		return http.StatusNotFound, "没有进行中的阅读"
	case errors.Is(err, service.ErrPositionOccupied):
		return http.StatusConflict, "该位置已经抽过牌"
	case errors.Is(err, service.ErrSpreadFull):
		return http.StatusConflict, "牌阵已满"
	case errors.Is(err, service.ErrNoCardsAvailable):
		return http.StatusConflict, "没有可抽的牌"
	case errors.Is(err, service.ErrInvalidPosition):
		return http.StatusUnprocessableEntity, "位置无效"
	case errors.Is(err, service.ErrTimeout):
		return http.StatusGatewayTimeout, "存储响应超时，请稍后再试"
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "存储暂不可用"
	case errors.Is(err, service.ErrPersistence):
		return http.StatusServiceUnavailable, "保存失败，请稍后再试"
	case errors.Is(err, service.ErrSessionClosed):
		return http.StatusConflict, "会话已结束，请重新登录"
	default:
		return http.StatusInternalServerError, "服务器内部错误"
	}
}

// abortWithError 按错误类型返回响应
func abortWithError(c *gin.Context, err error) {
	var verr requests.ValidationError
	if errors.As(err, &verr) {
		response.ValidationError(c, verr.Errors)
		return
	}
	if errors.Is(err, requests.ErrInvalidBody) {
		response.Abort400(c, "请求体格式错误")
		return
	}

	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.LogIf(err)
	}
	response.Abort(c, status, err, msg)
}
