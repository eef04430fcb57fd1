package middleware

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/config"
)

// Churches are served from their own subdomain, so an origin such as
// https://*.stewardpro.app admits every church frontend.

var (
	defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID"}
	// always allowed whatever the config says
	churchHeaders = []string{IdempotencyKeyHeader, ChurchHeader}
	exposed       = []string{"Content-Length", "Content-Type", "Content-Disposition", "X-Request-ID", "X-Idempotency-Replayed"}
)

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return slices.Clone(fallback)
	}
	return slices.Clone(values)
}

// CORSConfig builds the cors settings from configuration
func CORSConfig(cfg *config.CORSConfig) cors.Config {
	origins := orDefault(cfg.AllowedOrigins, defaultOrigins)
	headers := orDefault(cfg.AllowedHeaders, defaultHeaders)
	for _, h := range churchHeaders {
		if !slices.Contains(headers, h) {
			headers = append(headers, h)
		}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     orDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders:     headers,
		ExposeHeaders:    exposed,
		AllowCredentials: true,
		AllowWildcard: slices.ContainsFunc(origins, func(o string) bool {
			return strings.Contains(o, "*")
		}),
		MaxAge: 12 * time.Hour,
	}
}

func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(CORSConfig(cfg))
}
