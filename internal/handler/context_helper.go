package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spms-api/internal/middleware"
	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/service"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return fallback
}
