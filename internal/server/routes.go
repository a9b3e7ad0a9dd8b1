package server

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Router builds the gin engine serving the form, the chart and the JSON API.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(template.Must(template.New("index").Parse(indexHTML)))

	r.GET("/", s.Index)
	r.POST("/analyze", s.SubmitForm)
	r.GET("/chart.png", s.ChartImage("png"))
	r.GET("/chart.svg", s.ChartImage("svg"))

	api := r.Group("/api")
	api.GET("/analyze", s.APIAnalyze)
	api.GET("/runs", s.APIRuns)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()
		s.Logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(began)))
	}
}
