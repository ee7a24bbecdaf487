package database

import (
	"time"
)

type Article struct {
	ID          int // 0 lets the database assign the next id
	Slug        string
	Title       string
	Category    string
	PublishedOn time.Time
	Excerpt     string
	Content     string
	SourceURL   string // Feed item link for imported articles
}
