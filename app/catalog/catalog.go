package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Catalog is an immutable, ordered set of articles. All query methods are
// safe for concurrent use and never modify the catalog.
type Catalog struct {
	articles []Article
	bySlug   map[string]int
}

// New builds a catalog ordered by ascending article ID. IDs and slugs must be unique.
func New(articles []Article) (*Catalog, error) {
	sorted := slices.Clone(articles)
	slices.SortStableFunc(sorted, func(a, b Article) int {
		return cmp.Compare(a.ID, b.ID)
	})

	c := &Catalog{
		articles: sorted,
		bySlug:   make(map[string]int, len(sorted)),
	}

	for i, article := range sorted {
		if i > 0 && sorted[i-1].ID == article.ID {
			return nil, fmt.Errorf("duplicate article id %d", article.ID)
		}
		if _, ok := c.bySlug[article.Slug]; ok {
			return nil, fmt.Errorf("duplicate article slug '%s'", article.Slug)
		}
		c.bySlug[article.Slug] = i
	}

	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.articles)
}

// All returns every article in catalog order.
func (c *Catalog) All() []Article {
	return slices.Clone(c.articles)
}

// Search returns the articles whose title, excerpt or content contain query,
// compared case-insensitively as a raw substring with the same matcher
// Highlight uses. ok is false when the query is blank, which callers treat
// as "no query" rather than "no matches".
func (c *Catalog) Search(query string) (results []Article, ok bool) {
	if strings.TrimSpace(query) == "" {
		return nil, false
	}

	re := matcher(query)

	results = make([]Article, 0)
	for _, article := range c.articles {
		if re.MatchString(article.Title) ||
			re.MatchString(article.Excerpt) ||
			re.MatchString(article.Content) {
			results = append(results, article)
		}
	}

	return results, true
}

// FilterByCategory returns the articles of one category in catalog order.
// AllCategories returns the whole catalog; unknown categories match nothing.
func (c *Catalog) FilterByCategory(category string) []Article {
	if category == AllCategories {
		return c.All()
	}

	filtered := make([]Article, 0)
	for _, article := range c.articles {
		if article.Category == category {
			filtered = append(filtered, article)
		}
	}
	return filtered
}

// RelatedArticles picks up to limit articles for the article with the given
// ID: first from the same category, then from any other category, both in
// catalog order. The source article is never included.
func (c *Catalog) RelatedArticles(articleID int, category string, limit int) []Article {
	related := make([]Article, 0, max(limit, 0))
	if limit <= 0 {
		return related
	}

	for _, article := range c.articles {
		if len(related) == limit {
			return related
		}
		if article.ID != articleID && article.Category == category {
			related = append(related, article)
		}
	}

	for _, article := range c.articles {
		if len(related) == limit {
			break
		}
		if article.ID != articleID && article.Category != category {
			related = append(related, article)
		}
	}

	return related
}

// LookupBySlug returns the article with the given slug, or false if there is none.
func (c *Catalog) LookupBySlug(slug string) (Article, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Article{}, false
	}
	return c.articles[i], true
}
