package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func loadSampleCatalog(t *testing.T) *Catalog {
	t.Helper()

	categories, err := DefaultCategories()
	if err != nil {
		t.Fatalf("Expected no error loading categories, got: %v", err)
	}

	articles, err := NewLoader(SeedFS(), categories).Run()
	if err != nil {
		t.Fatalf("Expected no error loading sample articles, got: %v", err)
	}

	c, err := New(articles)
	if err != nil {
		t.Fatalf("Expected no error building catalog, got: %v", err)
	}
	return c
}

func ids(articles []Article) []int {
	result := make([]int, len(articles))
	for i, article := range articles {
		result[i] = article.ID
	}
	return result
}

func TestNew_SortsByID(t *testing.T) {
	c, err := New([]Article{
		{ID: 3, Slug: "c"},
		{ID: 1, Slug: "a"},
		{ID: 2, Slug: "b"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if diff := cmp.Diff([]int{1, 2, 3}, ids(c.All())); diff != "" {
		t.Errorf("Unexpected catalog order (-want +got):\n%s", diff)
	}
}

func TestNew_RejectsDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		articles []Article
		errPart  string
	}{
		{
			name:     "duplicate id",
			articles: []Article{{ID: 1, Slug: "a"}, {ID: 1, Slug: "b"}},
			errPart:  "duplicate article id 1",
		},
		{
			name:     "duplicate slug",
			articles: []Article{{ID: 1, Slug: "a"}, {ID: 2, Slug: "a"}},
			errPart:  "duplicate article slug 'a'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.articles)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Expected error containing '%s', got: %v", tt.errPart, err)
			}
		})
	}
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	input := []Article{{ID: 1, Slug: "a", Title: "Original"}}
	c, err := New(input)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	input[0].Title = "Changed"
	all := c.All()
	all[0].Title = "Changed again"

	article, _ := c.LookupBySlug("a")
	if article.Title != "Original" {
		t.Errorf("Expected catalog to keep 'Original', got '%s'", article.Title)
	}
}

func TestSampleCatalog(t *testing.T) {
	c := loadSampleCatalog(t)

	if c.Len() != 10 {
		t.Fatalf("Expected 10 articles, got %d", c.Len())
	}

	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(c.All())); diff != "" {
		t.Errorf("Unexpected catalog order (-want +got):\n%s", diff)
	}

	first, ok := c.LookupBySlug("understanding-transformers")
	if !ok {
		t.Fatal("Expected to find understanding-transformers")
	}
	if !first.Date.Equal(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected date 2025-07-15, got %v", first.Date)
	}
}

func TestSearch(t *testing.T) {
	c := loadSampleCatalog(t)

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{name: "lowercase", query: "yolo", want: []int{8}},
		{name: "uppercase", query: "YOLO", want: []int{8}},
		{name: "title only", query: "Web Scraping", want: []int{10}},
		{name: "excerpt and content", query: "python", want: []int{5, 10}},
		{name: "no matches", query: "kubernetes", want: []int{}},
		{name: "substring inside word", query: "former", want: []int{1, 3, 7, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, ok := c.Search(tt.query)
			if !ok {
				t.Fatalf("Expected query '%s' to be accepted", tt.query)
			}
			if diff := cmp.Diff(tt.want, ids(results)); diff != "" {
				t.Errorf("Unexpected results (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := loadSampleCatalog(t)

	for _, query := range []string{"", " ", "\t\n"} {
		results, ok := c.Search(query)
		if ok {
			t.Errorf("Expected blank query %q to signal no query", query)
		}
		if results != nil {
			t.Errorf("Expected nil results for blank query %q, got %v", query, ids(results))
		}
	}

	results, ok := c.Search("zzz-nothing")
	if !ok {
		t.Fatal("Expected non-blank query to be accepted")
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Expected empty non-nil results, got %v", results)
	}
}

func TestSearch_MatchesExactlyTheContainingArticles(t *testing.T) {
	c := loadSampleCatalog(t)

	for _, query := range []string{"learning", "Transformers", "data", "the", "GAN", "image"} {
		results, _ := c.Search(query)
		returned := make(map[int]bool)
		for _, article := range results {
			returned[article.ID] = true
		}

		needle := strings.ToLower(query)
		for _, article := range c.All() {
			contains := strings.Contains(strings.ToLower(article.Title), needle) ||
				strings.Contains(strings.ToLower(article.Excerpt), needle) ||
				strings.Contains(strings.ToLower(article.Content), needle)
			if contains != returned[article.ID] {
				t.Errorf("Query '%s': article %d contains=%t but returned=%t", query, article.ID, contains, returned[article.ID])
			}
		}
	}
}

func TestSearch_NonASCIICase(t *testing.T) {
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := New([]Article{
		{ID: 1, Slug: "die-strasse", Title: "Die Straße", Category: "nlp", Date: date, Excerpt: "Ein Text.", Content: "Ein Text."},
		{ID: 2, Slug: "css-classes", Title: "CSS classes", Category: "programming", Date: date, Excerpt: "Styling.", Content: "Styling."},
		{ID: 3, Slug: "ecole-normale", Title: "Notes from L'École", Category: "nlp", Date: date, Excerpt: "Cours.", Content: "Un cours à l'école."},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query    string
		expected []int
	}{
		{"ß", []int{1}},
		{"STRAßE", []int{1}},
		{"strasse", []int{}},
		{"école", []int{3}},
		{"ÉCOLE", []int{3}},
		{"css", []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, ok := c.Search(tt.query)
			if !ok {
				t.Fatalf("Expected ok for query '%s'", tt.query)
			}
			if diff := cmp.Diff(tt.expected, ids(results)); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}

			for _, article := range results {
				if !hasMatch(Highlight(article.Title, tt.query)) &&
					!hasMatch(Highlight(article.Excerpt, tt.query)) &&
					!hasMatch(Highlight(article.Content, tt.query)) {
					t.Errorf("Query '%s': article %d returned but nothing highlights", tt.query, article.ID)
				}
			}
		})
	}
}

func hasMatch(segments []Segment) bool {
	for _, segment := range segments {
		if segment.Match {
			return true
		}
	}
	return false
}

func TestFilterByCategory(t *testing.T) {
	c := loadSampleCatalog(t)

	tests := []struct {
		category string
		want     []int
	}{
		{category: "nlp", want: []int{3, 7}},
		{category: "machine-learning", want: []int{1, 2, 6, 9}},
		{category: "computer-vision", want: []int{4, 8}},
		{category: "programming", want: []int{5, 10}},
		{category: "all", want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{category: "gardening", want: []int{}},
		{category: "NLP", want: []int{}},
		{category: "", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := c.FilterByCategory(tt.category)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Unexpected results (-want +got):\n%s", diff)
			}
			if tt.category == AllCategories {
				return
			}
			for _, article := range got {
				if article.Category != tt.category {
					t.Errorf("Article %d has category '%s', expected '%s'", article.ID, article.Category, tt.category)
				}
			}
		})
	}
}

func TestRelatedArticles(t *testing.T) {
	c := loadSampleCatalog(t)

	tests := []struct {
		name     string
		id       int
		category string
		limit    int
		want     []int
	}{
		{name: "same category fills limit", id: 1, category: "machine-learning", limit: 3, want: []int{2, 6, 9}},
		{name: "cross category fill", id: 3, category: "nlp", limit: 3, want: []int{7, 1, 2}},
		{name: "last article", id: 10, category: "programming", limit: 3, want: []int{5, 1, 2}},
		{name: "smaller limit", id: 6, category: "machine-learning", limit: 2, want: []int{1, 2}},
		{name: "zero limit", id: 1, category: "machine-learning", limit: 0, want: []int{}},
		{name: "negative limit", id: 1, category: "machine-learning", limit: -1, want: []int{}},
		{name: "unknown category", id: 1, category: "gardening", limit: 3, want: []int{2, 3, 4}},
		{name: "limit above catalog size", id: 4, category: "computer-vision", limit: 20, want: []int{8, 1, 2, 3, 5, 6, 7, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.RelatedArticles(tt.id, tt.category, tt.limit)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Unexpected related articles (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRelatedArticles_Invariants(t *testing.T) {
	c := loadSampleCatalog(t)

	for _, source := range c.All() {
		for limit := 0; limit <= 10; limit++ {
			related := c.RelatedArticles(source.ID, source.Category, limit)
			if len(related) > limit {
				t.Errorf("Article %d limit %d: got %d related", source.ID, limit, len(related))
			}

			seen := make(map[int]bool)
			crossed := false
			for _, article := range related {
				if article.ID == source.ID {
					t.Errorf("Article %d is related to itself", source.ID)
				}
				if seen[article.ID] {
					t.Errorf("Article %d appears twice in related list of %d", article.ID, source.ID)
				}
				seen[article.ID] = true

				if article.Category != source.Category {
					crossed = true
				} else if crossed {
					t.Errorf("Same-category article %d follows a cross-category one for %d", article.ID, source.ID)
				}
			}
		}
	}
}

func TestRelatedArticles_SmallCatalog(t *testing.T) {
	c, err := New([]Article{{ID: 1, Slug: "only", Category: "nlp"}})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got := c.RelatedArticles(1, "nlp", 3); len(got) != 0 {
		t.Errorf("Expected no related articles, got %v", ids(got))
	}

	empty, err := New(nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got := empty.RelatedArticles(1, "nlp", 3); len(got) != 0 {
		t.Errorf("Expected no related articles, got %v", ids(got))
	}
}

func TestLookupBySlug(t *testing.T) {
	c := loadSampleCatalog(t)

	for _, article := range c.All() {
		found, ok := c.LookupBySlug(article.Slug)
		if !ok {
			t.Errorf("Expected to find slug '%s'", article.Slug)
			continue
		}
		if found.Slug != article.Slug || found.ID != article.ID {
			t.Errorf("Expected article %d, got %d", article.ID, found.ID)
		}
	}

	for _, slug := range []string{"", "missing", "Understanding-Transformers", "understanding-transformers.html"} {
		if _, ok := c.LookupBySlug(slug); ok {
			t.Errorf("Expected slug '%s' to be not found", slug)
		}
	}
}
