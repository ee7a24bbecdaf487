package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lysyi3m/mylog/app/catalog"
	"github.com/lysyi3m/mylog/app/database"
	"github.com/lysyi3m/mylog/app/source"
)

// ImportDirTask copies an articles directory into the article store,
// keeping the ids given in the files.
type ImportDirTask struct {
	Task
	dir         string
	articleRepo database.ArticleRepository
	categories  *catalog.Categories
}

func NewImportDirTask(dir string, articleRepo database.ArticleRepository, categories *catalog.Categories) *ImportDirTask {
	return &ImportDirTask{
		Task:        NewTask(TaskTypeImportDir, dir),
		dir:         dir,
		articleRepo: articleRepo,
		categories:  categories,
	}
}

func (t *ImportDirTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	info, err := os.Stat(t.dir)
	if err != nil {
		return fmt.Errorf("failed to read articles directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", t.dir)
	}

	articles, err := catalog.NewDirLoader(t.dir, t.categories).Run()
	if err != nil {
		return fmt.Errorf("failed to load articles: %w", err)
	}

	for _, article := range articles {
		if _, err := t.articleRepo.UpsertArticle(source.ToRecord(article, "")); err != nil {
			return fmt.Errorf("failed to store article: %w", err)
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"dir", t.dir,
		"duration", t.GetDuration(),
		"imported", len(articles))

	return nil
}
