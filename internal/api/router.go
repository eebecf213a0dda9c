package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/stay-booking-backend/internal/auth"
	"github.com/nekogravitycat/stay-booking-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/stay-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/stay-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/stay-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/stay-booking-backend/internal/property"
	propertyHttp "github.com/nekogravitycat/stay-booking-backend/internal/property/http"
)

// Config holds the services the router exposes.
type Config struct {
	IsProduction        bool
	ProdOrigins         string
	Logger              *logger.Logger
	JWTManager          *auth.JWTManager
	PropertyService     property.Service
	AvailabilityService availability.Service
	BookingService      booking.Service
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - RequestLogger: structured request logs with a request id.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(cfg.Logger), Recovery(cfg.Logger))
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks the token carries the admin role.
	adminMiddleware := auth.RequireAdmin()

	propertyHandler := propertyHttp.NewHandler(cfg.PropertyService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		propertyHttp.RegisterRoutes(v1, propertyHandler, authMiddleware, adminMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
	}

	return r
}

// Configure CORS (Cross-Origin Resource Sharing).
func corsConfig(cfg Config) cors.Config {
	config := cors.DefaultConfig()
	if cfg.IsProduction {
		var origins []string
		for _, o := range strings.Split(cfg.ProdOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		config.AllowOrigins = origins
		if len(origins) == 0 {
			// No browser origin is trusted.
			config.AllowOriginFunc = func(string) bool { return false }
		}
	} else {
		config.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
			"http://localhost:3000",
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader, "Retry-After"}
	return config
}
