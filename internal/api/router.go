// Package api assembles the REST server that exposes the booking store.
package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/courtside/internal/booking"
	bookingHttp "github.com/javiermolinar/courtside/internal/booking/http"
)

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// NewRouter initializes the HTTP router engine with its middleware and routes.
func NewRouter(store booking.Store, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(opts.Logger), gin.Recovery())

	config := cors.DefaultConfig()
	if len(opts.AllowedOrigins) > 0 {
		config.AllowOrigins = opts.AllowedOrigins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", requestIDHeader}
	config.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(config))

	bookingHandler := bookingHttp.NewHandler(store, opts.Logger)

	v1 := r.Group("/v1")
	{
		v1.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		bookingHttp.RegisterRoutes(v1, bookingHandler)
	}

	return r
}
