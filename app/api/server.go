package api

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) (*gin.Engine, error) {
	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	setupRoutes(r, handler)

	return r, nil
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/", handler.GetIndex)
	r.GET("/search", handler.GetSearch)
	r.GET("/articles/:slug", handler.GetArticle)
	r.GET("/article-pages/:file", handler.GetLegacyArticle)
	r.POST("/contact", handler.PostContact)

	r.GET("/feed.xml", handler.GetFeed)
	r.GET("/health", handler.GetHealth)

	api := r.Group("/api")
	{
		api.GET("/articles", handler.APIListArticles)
		api.GET("/articles/:slug", handler.APIGetArticle)
		api.GET("/articles/:slug/related", handler.APIGetRelated)
		api.GET("/search", handler.APISearch)
		api.GET("/categories", handler.APIListCategories)
	}

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	r.NoRoute(func(c *gin.Context) {
		handler.renderError(c, http.StatusNotFound, "Page Not Found", "The page you're looking for could not be found.")
	})
}
