package catalog

import (
	"time"
)

// AllCategories is the category token that selects the whole catalog.
const AllCategories = "all"

// DefaultRelatedLimit is the number of related articles shown next to an article.
const DefaultRelatedLimit = 3

// DateLayout is the ISO calendar date format used by article sources.
const DateLayout = "2006-01-02"

type Article struct {
	ID       int       `json:"id"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	Excerpt  string    `json:"excerpt"`
	Content  string    `json:"content"`
}

type CategoryInfo struct {
	Code        string `yaml:"code" json:"code"`
	DisplayName string `yaml:"name" json:"name"`
	StyleClass  string `yaml:"style" json:"style"`
}

// Segment is a piece of highlighted text. Match marks an occurrence of the query.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// rawArticle is the on-disk shape of an article record before validation.
type rawArticle struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Date     string `yaml:"date"`
	Excerpt  string `yaml:"excerpt"`
	Content  string `yaml:"content"`
}
