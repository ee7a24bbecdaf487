package api

import (
	"strings"

	"github.com/lysyi3m/mylog/app/catalog"
	"github.com/lysyi3m/mylog/app/feed"
)

const displayDateLayout = "January 2, 2006"

type GeneratorInterface interface {
	Run(articles []catalog.Article, categories *catalog.Categories) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	catalog    *catalog.Catalog
	categories *catalog.Categories
	generator  GeneratorInterface
	siteTitle  string
	source     string
	version    string
}

// PageView is the state of one rendered page: the active filter and the
// current search live here rather than in the catalog.
type PageView struct {
	SiteTitle      string
	Title          string
	Year           int
	Categories     []catalog.CategoryInfo
	ActiveCategory string
	Query          string
	Articles       []ArticleView
	Article        *ArticleView
	Related        []ArticleView
	Message        string
	Error          bool
}

type ArticleView struct {
	catalog.Article
	CategoryName  string
	CategoryStyle string
	DisplayDate   string
	URL           string
	TitleSegments []catalog.Segment
}

// Paragraphs splits content on blank lines.
func (v ArticleView) Paragraphs() []string {
	var paragraphs []string
	for _, p := range strings.Split(strings.ReplaceAll(v.Content, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

type ContactForm struct {
	Name    string `form:"name" json:"name" binding:"required"`
	Email   string `form:"email" json:"email" binding:"required"`
	Message string `form:"message" json:"message" binding:"required"`
}

// APIArticle is the JSON shape of an article.
type APIArticle struct {
	ID           int    `json:"id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	CategoryName string `json:"category_name"`
	Date         string `json:"date"`
	Excerpt      string `json:"excerpt"`
	Content      string `json:"content,omitempty"`
	URL          string `json:"url"`
	TitleHTML    string `json:"title_html,omitempty"`
}

type APICategory struct {
	catalog.CategoryInfo
	Count int `json:"count"`
}
