package tasks

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/lysyi3m/mylog/app/database"
)

// MockArticleRepository keeps articles in memory keyed by slug
type MockArticleRepository struct {
	mu       sync.Mutex
	articles map[string]database.Article
	nextID   int
	err      error
}

var _ database.ArticleRepository = (*MockArticleRepository)(nil)

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		articles: make(map[string]database.Article),
		nextID:   1,
	}
}

func (m *MockArticleRepository) GetAllArticles() ([]database.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	articles := make([]database.Article, 0, len(m.articles))
	for _, article := range m.articles {
		articles = append(articles, article)
	}
	slices.SortFunc(articles, func(a, b database.Article) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return articles, nil
}

func (m *MockArticleRepository) GetArticleBySlug(slug string) (*database.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	article, ok := m.articles[slug]
	if !ok {
		return nil, nil
	}
	return &article, nil
}

func (m *MockArticleRepository) GetArticleCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.articles), nil
}

func (m *MockArticleRepository) UpsertArticle(article database.Article) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return 0, m.err
	}
	if article.Slug == "" {
		return 0, fmt.Errorf("slug is required")
	}

	if article.ID > 0 {
		for slug, other := range m.articles {
			if other.ID == article.ID && slug != article.Slug {
				other.ID = m.nextID
				m.nextID++
				m.articles[slug] = other
			}
		}
	} else if existing, ok := m.articles[article.Slug]; ok {
		article.ID = existing.ID
	} else {
		article.ID = m.nextID
	}
	m.nextID = max(m.nextID, article.ID+1)

	m.articles[article.Slug] = article
	return article.ID, nil
}
