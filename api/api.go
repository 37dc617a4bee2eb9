package api

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/clearline-finance/clearline"
	"github.com/clearline-finance/clearline/api/middleware"
	"github.com/clearline-finance/clearline/config"
)

type Api struct {
	service *clearline.Clearline
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/staging-entries", a.CreateStagingEntry)
	router.GET("/staging-entries/:id", a.GetStagingEntry)

	router.POST("/tasks/trigger", a.TriggerQueue)
	router.GET("/tasks/:id", a.GetTask)

	router.POST("/recon-rules", a.CreateReconRule)
	router.GET("/recon-rules/:merchant_id", a.GetReconRules)

	return a.router
}

func NewAPI(service *clearline.Clearline) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(otelgin.Middleware(conf.ProjectName))
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{service: service, router: r}
}
