package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with CORS, request IDs, the logging
// endpoint, and the dashboard API. Every response carries permissive
// cross-origin headers so any origin may read it.
func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type"},
		OptionsResponseStatusCode: http.StatusOK,
	}))
	r.Use(RequestID())

	// Logging endpoint wire contract
	r.POST("/", SubmitTransition)
	r.OPTIONS("/", Preflight)
	r.GET("/", InfoPage)

	// Dashboard API consumed by the widget
	api := r.Group("/api")
	{
		api.GET("/worksheets", ListWorksheets)
		api.GET("/worksheets/:name/summary", WorksheetSummary)

		api.GET("/datasources", ListDataSources)
		api.POST("/datasources/:id/refresh", RefreshDataSource)

		api.GET("/accounts", ListAccounts)
		api.POST("/accounts", CreateAccount)
		api.DELETE("/accounts/:id", DeleteAccount)

		api.GET("/activity", RecentActivity)

		api.GET("/settings/:key", GetSetting)
		api.PUT("/settings/:key", PutSetting)

		api.GET("/parameters/current_user", GetCurrentUserParameter)
		api.PUT("/parameters/current_user", PutCurrentUserParameter)

		api.GET("/health", HealthCheck)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
