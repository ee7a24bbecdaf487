package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var _ ArticleRepository = (*SQLArticleRepository)(nil)

// SQLArticleRepository handles database operations for articles
type SQLArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *SQLArticleRepository {
	return &SQLArticleRepository{db: db}
}

// GetAllArticles returns every article ordered by id
func (r *SQLArticleRepository) GetAllArticles() ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT id, slug, title, category, published_on, excerpt, content, source_url
		FROM articles
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// GetArticleBySlug returns nil when no article has the slug
func (r *SQLArticleRepository) GetArticleBySlug(slug string) (*Article, error) {
	row := r.db.QueryRow(`
		SELECT id, slug, title, category, published_on, excerpt, content, source_url
		FROM articles
		WHERE slug = ?
	`, slug)

	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &article, nil
}

func (r *SQLArticleRepository) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

const upsertArticleSQL = `
	INSERT INTO articles (id, slug, title, category, published_on, excerpt, content, source_url)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (slug) DO UPDATE SET
		%s
		title = excluded.title,
		category = excluded.category,
		published_on = excluded.published_on,
		excerpt = excluded.excerpt,
		content = excluded.content,
		source_url = excluded.source_url,
		updated_at = CURRENT_TIMESTAMP
	RETURNING id
`

// UpsertArticle inserts an article or updates the one with the same slug.
// An explicit id replaces the stored one; an article holding that id under
// another slug is moved to a fresh id. It returns the stored id.
func (r *SQLArticleRepository) UpsertArticle(article Article) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id sql.NullInt64
	setID := ""
	if article.ID > 0 {
		id = sql.NullInt64{Int64: int64(article.ID), Valid: true}
		setID = "id = excluded.id,"

		_, err := tx.Exec(`
			UPDATE articles
			SET id = (SELECT MAX(id) + 1 FROM articles), updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND slug <> ?
		`, article.ID, article.Slug)
		if err != nil {
			return 0, fmt.Errorf("failed to release id %d for article '%s': %w", article.ID, article.Slug, err)
		}
	}

	var storedID int
	err = tx.QueryRow(fmt.Sprintf(upsertArticleSQL, setID),
		id, article.Slug, article.Title, article.Category, article.PublishedOn.Format(dateLayout),
		article.Excerpt, article.Content, article.SourceURL).Scan(&storedID)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert article '%s': %w", article.Slug, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit article '%s': %w", article.Slug, err)
	}

	return storedID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (Article, error) {
	var article Article
	var publishedOn string

	err := row.Scan(&article.ID, &article.Slug, &article.Title, &article.Category, &publishedOn,
		&article.Excerpt, &article.Content, &article.SourceURL)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, err
	}
	if err != nil {
		return Article{}, fmt.Errorf("failed to scan article row: %w", err)
	}

	article.PublishedOn, err = time.Parse(dateLayout, publishedOn)
	if err != nil {
		return Article{}, fmt.Errorf("invalid published_on '%s' for article '%s': %w", publishedOn, article.Slug, err)
	}

	return article, nil
}
