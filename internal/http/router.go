package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/config"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/http/handlers"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/http/middleware"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/ratelimit"

	_ "github.com/Flofactionllc/flofaction-website-sub000/docs"
)

// Limiters holds one limiter per endpoint group. A nil limiter disables limiting
// for its group.
type Limiters struct {
	Agent ratelimit.Limiter
	Forms ratelimit.Limiter
}

func Router(cfg config.Config, h *handlers.Handler, limiters Limiters, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing())
	r.Use(middleware.Logger(logger))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.AdminKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = splitOrigins(cfg.CORSAllowed)
	}
	r.Use(cors.New(corsCfg))

	r.NoMethod(h.MethodNotAllowed)
	r.NoRoute(h.NotFound)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	agent := r.Group("/agent")
	agent.Use(middleware.RateLimit(limiters.Agent, logger))
	{
		agent.POST("/interact", h.Interact)
		agent.POST("/chat", h.Chat)
		agent.GET("/profiles", h.Profiles)
		agent.GET("/profiles/:pageType", h.Profile)
		agent.POST("/speak", h.Speak)
		agent.POST("/transcribe", h.Transcribe)
	}

	admin := r.Group("/agent")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/stats", h.Stats)
	}

	forms := r.Group("")
	forms.Use(middleware.RateLimit(limiters.Forms, logger))
	{
		forms.POST("/intake/submit", h.IntakeSubmit)
		forms.POST("/contact", h.ContactSubmit)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
