package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/reasoning-relay/internal/pkg/errors"
)

// ErrorBody 错误响应结构
type ErrorBody struct {
	Code   int    `json:"code"`             // 业务错误码
	Detail string `json:"detail,omitempty"` // 错误详情
}

// exposeDetails 控制是否把底层错误信息返回给客户端
var exposeDetails = true

// SetExposeDetails toggles whether error details reach clients.
// Disabled, only the generic message for the code is returned.
func SetExposeDetails(expose bool) {
	exposeDetails = expose
}

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// HandleError 统一错误处理（使用AppError）
func HandleError(c *gin.Context, err error) {
	code := apperrors.ExtractCode(err)
	httpStatus := apperrors.GetHTTPStatus(code)

	detail := apperrors.GetMessage(code)
	if exposeDetails {
		detail = apperrors.GetDetails(err)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(httpStatus, ErrorBody{
		Code:   code,
		Detail: detail,
	})
}

// ErrorWithCode 使用错误码的错误响应
func ErrorWithCode(c *gin.Context, code int, details ...string) {
	HandleError(c, apperrors.New(code, details...))
}
