package source

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lysyi3m/mylog/app/catalog"
	"github.com/lysyi3m/mylog/app/database"
)

type Kind string

const (
	KindAuto     Kind = "auto"
	KindFiles    Kind = "files"
	KindSQLite   Kind = "sqlite"
	KindEmbedded Kind = "embedded"
)

type Options struct {
	Kind        Kind
	ArticlesDir string
	DBPath      string
}

// Resolve picks the concrete source for auto: the database when a path is
// configured, then the articles directory when it exists, then the
// embedded sample set.
func Resolve(opts Options) Kind {
	if opts.Kind != KindAuto && opts.Kind != "" {
		return opts.Kind
	}

	if opts.DBPath != "" {
		return KindSQLite
	}

	if opts.ArticlesDir != "" {
		if info, err := os.Stat(opts.ArticlesDir); err == nil && info.IsDir() {
			return KindFiles
		}
	}

	return KindEmbedded
}

// Load reads every article once from the resolved source.
func Load(opts Options, categories *catalog.Categories) ([]catalog.Article, Kind, error) {
	kind := Resolve(opts)

	var (
		articles []catalog.Article
		err      error
	)

	switch kind {
	case KindFiles:
		articles, err = catalog.NewDirLoader(opts.ArticlesDir, categories).Run()
	case KindEmbedded:
		articles, err = catalog.NewLoader(catalog.SeedFS(), categories).Run()
	case KindSQLite:
		articles, err = loadDatabase(opts.DBPath, categories)
	default:
		return nil, kind, fmt.Errorf("unknown article source '%s'", kind)
	}

	if err != nil {
		return nil, kind, fmt.Errorf("failed to load articles from %s source: %w", kind, err)
	}

	slog.Debug("Articles loaded", "source", string(kind), "count", len(articles))

	return articles, kind, nil
}

func loadDatabase(path string, categories *catalog.Categories) ([]catalog.Article, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := database.NewConnection(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, _, err := database.RunMigrations(db); err != nil {
		return nil, err
	}

	return FromRepository(database.NewArticleRepository(db), categories)
}

// FromRepository converts stored articles, rejecting any that break the
// article invariants.
func FromRepository(repo database.ArticleRepository, categories *catalog.Categories) ([]catalog.Article, error) {
	records, err := repo.GetAllArticles()
	if err != nil {
		return nil, err
	}

	articles := make([]catalog.Article, 0, len(records))
	for _, record := range records {
		article := ToArticle(record)
		if err := catalog.ValidateArticle(article, categories); err != nil {
			return nil, fmt.Errorf("invalid stored article '%s': %w", record.Slug, err)
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func ToArticle(record database.Article) catalog.Article {
	return catalog.Article{
		ID:       record.ID,
		Slug:     record.Slug,
		Title:    record.Title,
		Category: record.Category,
		Date:     record.PublishedOn,
		Excerpt:  record.Excerpt,
		Content:  record.Content,
	}
}

func ToRecord(article catalog.Article, sourceURL string) database.Article {
	return database.Article{
		ID:          article.ID,
		Slug:        article.Slug,
		Title:       article.Title,
		Category:    article.Category,
		PublishedOn: article.Date,
		Excerpt:     article.Excerpt,
		Content:     article.Content,
		SourceURL:   sourceURL,
	}
}
