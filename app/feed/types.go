package feed

import (
	"time"
)

// Feed import types

type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
}

type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string // Raw HTML or text from the feed
	PublishedAt time.Time
	Categories  []string

	IsFiltered   bool
	FilterReason string
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Settings ConfigSettings `yaml:"settings"`
	Filters  []ConfigFilter `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled         bool   `yaml:"enabled"`
	MaxItems        int    `yaml:"max_items"`
	Timeout         int    `yaml:"timeout"`          // seconds
	FetchContent    bool   `yaml:"fetch_content"`    // extract content from the item page
	DefaultCategory string `yaml:"default_category"` // used when no item category is known
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
