package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/domain/quote"
	"weddinghall/internal/middleware"
	"weddinghall/internal/pkg/jwt"
	"weddinghall/internal/pkg/response"
)

// ReadyFunc reports whether backing services are reachable.
type ReadyFunc func(ctx context.Context) error

type Options struct {
	CORSOrigins []string
	Ready       ReadyFunc

	// Auth verifies admin tokens for catalog import. Without it every
	// import is rejected.
	Auth *jwt.Service
}

func New(catalogHandler *catalog.Handler, quoteHandler *quote.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), middleware.RequestID(), middleware.ErrorLogger(), middleware.CORS(opts.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", readyHandler(opts.Ready))

	v1 := r.Group("/api/v1")
	{
		catalogHandler.RegisterRoutes(v1, middleware.JWTAuth(opts.Auth), middleware.AdminOnly())
		quoteHandler.RegisterRoutes(v1)
	}

	return r
}

func readyHandler(ready ReadyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				response.Error(c, http.StatusServiceUnavailable, "NOT_READY", err.Error())
				return
			}
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ready"})
	}
}
