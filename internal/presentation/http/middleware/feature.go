package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// FeatureChecker reports whether the church's package includes a feature
type FeatureChecker interface {
	RequireFeature(ctx context.Context, f enum.Feature) error
}

// RequireFeature answers 402 when the church's subscription does not
// include f. It must run after ChurchContext.
func RequireFeature(checker FeatureChecker, f enum.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checker.RequireFeature(c.Request.Context(), f); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
