package api

import (
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/mylog/app/catalog"
)

const (
	contactSuccessMessage = "Thank you for your message! I will get back to you soon."
	contactMissingMessage = "Please fill in all fields."
)

func NewHandler(c *catalog.Catalog, categories *catalog.Categories, generator GeneratorInterface,
	siteTitle, source, version string) *Handler {
	return &Handler{
		catalog:    c,
		categories: categories,
		generator:  generator,
		siteTitle:  siteTitle,
		source:     source,
		version:    version,
	}
}

func (h *Handler) GetIndex(c *gin.Context) {
	category := c.DefaultQuery("category", catalog.AllCategories)
	if category == "" {
		category = catalog.AllCategories
	}

	view := h.newPageView("")
	view.ActiveCategory = category
	view.Articles = h.articleViews(h.catalog.FilterByCategory(category), "")

	c.HTML(http.StatusOK, "index.html", view)
}

func (h *Handler) GetSearch(c *gin.Context) {
	query := c.Query("q")

	results, ok := h.catalog.Search(query)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	view := h.newPageView("Search")
	view.Query = query
	view.Articles = h.articleViews(results, query)

	c.HTML(http.StatusOK, "search.html", view)
}

func (h *Handler) GetArticle(c *gin.Context) {
	h.renderArticle(c, c.Param("slug"))
}

// GetLegacyArticle serves the old /article-pages/<slug>.html addresses.
func (h *Handler) GetLegacyArticle(c *gin.Context) {
	slug := strings.TrimSuffix(c.Param("file"), ".html")
	if _, ok := h.catalog.LookupBySlug(slug); !ok {
		h.renderNotFound(c)
		return
	}
	c.Redirect(http.StatusMovedPermanently, "/articles/"+slug)
}

func (h *Handler) renderArticle(c *gin.Context, slug string) {
	article, ok := h.catalog.LookupBySlug(slug)
	if !ok {
		slog.Debug("Article not found", "slug", slug)
		h.renderNotFound(c)
		return
	}

	articleView := h.articleView(article, "")

	view := h.newPageView(article.Title)
	view.ActiveCategory = article.Category
	view.Article = &articleView
	view.Related = h.articleViews(h.catalog.RelatedArticles(article.ID, article.Category, catalog.DefaultRelatedLimit), "")

	c.HTML(http.StatusOK, "article.html", view)
}

func (h *Handler) renderNotFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "Article Not Found", "The article you're looking for could not be found.")
}

func (h *Handler) renderError(c *gin.Context, status int, title, message string) {
	view := h.newPageView(title)
	view.Message = message
	view.Error = true

	c.HTML(status, "not_found.html", view)
}

func (h *Handler) PostContact(c *gin.Context) {
	var form ContactForm
	err := c.ShouldBind(&form)

	status := http.StatusOK
	message := contactSuccessMessage
	if err != nil || strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Email) == "" || strings.TrimSpace(form.Message) == "" {
		status = http.StatusBadRequest
		message = contactMissingMessage
	} else {
		slog.Info("Contact message received", "name", form.Name, "email", form.Email, "length", len(form.Message))
	}

	view := h.newPageView("Contact")
	view.Message = message
	view.Error = status != http.StatusOK

	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: "contact.html",
		HTMLData: view,
		JSONData: gin.H{"success": status == http.StatusOK, "message": message},
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	articles := h.catalog.All()

	rss, err := h.generator.Run(articles, h.categories)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(articles)))

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"articles":  h.catalog.Len(),
		"source":    h.source,
		"version":   h.version,
	})
}

func (h *Handler) APIListArticles(c *gin.Context) {
	category := c.DefaultQuery("category", catalog.AllCategories)
	articles := h.catalog.FilterByCategory(category)

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"articles": h.apiArticles(articles, "", false),
		"total":    len(articles),
	})
}

func (h *Handler) APIGetArticle(c *gin.Context) {
	slug := c.Param("slug")

	article, ok := h.catalog.LookupBySlug(slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, h.apiArticle(article, "", true))
}

func (h *Handler) APIGetRelated(c *gin.Context) {
	slug := c.Param("slug")

	limit := catalog.DefaultRelatedLimit
	if value := c.Query("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	article, ok := h.catalog.LookupBySlug(slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	related := h.catalog.RelatedArticles(article.ID, article.Category, limit)

	c.JSON(http.StatusOK, gin.H{
		"article":  article.Slug,
		"articles": h.apiArticles(related, "", false),
		"total":    len(related),
	})
}

func (h *Handler) APISearch(c *gin.Context) {
	query := c.Query("q")

	results, ok := h.catalog.Search(query)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"status":  "no_query",
			"query":   query,
			"results": []APIArticle{},
			"total":   0,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"query":   query,
		"results": h.apiArticles(results, query, false),
		"total":   len(results),
	})
}

func (h *Handler) APIListCategories(c *gin.Context) {
	list := h.categories.All()

	categories := make([]APICategory, 0, len(list))
	for _, info := range list {
		categories = append(categories, APICategory{
			CategoryInfo: info,
			Count:        len(h.catalog.FilterByCategory(info.Code)),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}

func (h *Handler) newPageView(title string) PageView {
	return PageView{
		SiteTitle:      h.siteTitle,
		Title:          title,
		Year:           time.Now().Year(),
		Categories:     h.categories.All(),
		ActiveCategory: catalog.AllCategories,
	}
}

func (h *Handler) articleView(article catalog.Article, query string) ArticleView {
	info := h.categories.Lookup(article.Category)

	return ArticleView{
		Article:       article,
		CategoryName:  info.DisplayName,
		CategoryStyle: info.StyleClass,
		DisplayDate:   article.Date.Format(displayDateLayout),
		URL:           "/articles/" + article.Slug,
		TitleSegments: catalog.Highlight(article.Title, query),
	}
}

func (h *Handler) articleViews(articles []catalog.Article, query string) []ArticleView {
	views := make([]ArticleView, 0, len(articles))
	for _, article := range articles {
		views = append(views, h.articleView(article, query))
	}
	return views
}

func (h *Handler) apiArticle(article catalog.Article, query string, withContent bool) APIArticle {
	result := APIArticle{
		ID:           article.ID,
		Slug:         article.Slug,
		Title:        article.Title,
		Category:     article.Category,
		CategoryName: h.categories.Lookup(article.Category).DisplayName,
		Date:         article.Date.Format(catalog.DateLayout),
		Excerpt:      article.Excerpt,
		URL:          "/articles/" + article.Slug,
	}

	if withContent {
		result.Content = article.Content
	}

	if query != "" {
		result.TitleHTML = catalog.HighlightString(article.Title, query, html.EscapeString, func(s string) string {
			return `<span class="highlight">` + s + `</span>`
		})
	}

	return result
}

func (h *Handler) apiArticles(articles []catalog.Article, query string, withContent bool) []APIArticle {
	result := make([]APIArticle, 0, len(articles))
	for _, article := range articles {
		result = append(result, h.apiArticle(article, query, withContent))
	}
	return result
}
