package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// Recovery panic恢复，返回统一的50000响应
func Recovery(base *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log := logger.FromContext(c.Request.Context(), base)
		log.Error("panic recovered",
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered),
		)
		response.ErrorWithCode(c, apperrors.ErrCodeInternal, apperrors.ErrInternal.Message)
		c.Abort()
	})
}
