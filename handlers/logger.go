package handlers

import (
	"net/http"
	"strconv"

	"plantco/middleware"
	"plantco/models"
	"plantco/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request logger from the Gin context or falls back
// to fallback.
func getLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}

// principal aborts with 401 when the request carries no principal.
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Insufficient authorization"})
	}
	return p, ok
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(c *gin.Context, logger *zap.Logger, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondError(c, logger, utils.NewValidationError(utils.CodeInvalidInput, "Invalid request: "+err.Error()))
		return false
	}
	return true
}

// pageQuery reads ?page= and ?limit=; bad values fall back to the defaults.
func pageQuery(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}
	return page, limit
}

// noteBody is the optional body of cancel, refund and reject calls.
type noteBody struct {
	Note   string `json:"note,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (b noteBody) text() string {
	if b.Reason != "" {
		return b.Reason
	}
	return b.Note
}

// optionalBody binds a JSON body if one was sent.
func optionalBody(c *gin.Context, logger *zap.Logger, dst interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, logger, dst)
}
