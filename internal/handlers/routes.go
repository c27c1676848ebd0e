package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Sessions  *SessionHandler
	Results   *ResultHandler
	Questions *QuestionHandler
}

// RegisterRoutes mounts the assessment API on r. auth identifies the caller
// on every protected route.
func RegisterRoutes(r *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	publicQuestion := r.Group("/public/assessment/questions")
	{
		publicQuestion.GET("/:id", h.Questions.GetQuestion)
	}

	protected := r.Group("/protected/assessment", auth)

	test := protected.Group("/test", TestTakersOnly())
	{
		test.POST("/start", h.Sessions.StartTest)
		test.POST("/submit", h.Sessions.SubmitAnswer)
		test.POST("/:id/finish", h.Sessions.FinishTest)
		test.GET("/:id", h.Sessions.GetTest)
	}

	results := protected.Group("/results")
	{
		results.GET("", h.Results.ListResults)
		results.GET("/:id", h.Results.GetResult)
	}

	questions := protected.Group("/questions", RequireRole(RoleAdmin, RoleFaculty))
	{
		questions.POST("", h.Questions.CreateQuestion)
	}
}
