package tasks

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lysyi3m/mylog/app/catalog"
	"github.com/lysyi3m/mylog/app/database"
	"github.com/lysyi3m/mylog/app/feed"
	"github.com/lysyi3m/mylog/app/source"
)

// ImportFeedTask copies the items of one feed into the article store.
// Articles are keyed by slug, so repeated imports update in place. A slug
// already stored for another link is left alone.
type ImportFeedTask struct {
	Task
	FeedConfig       *feed.Config
	httpClient       *http.Client
	parser           *feed.Parser
	filterer         *feed.Filterer
	contentExtractor *feed.ContentExtractor
	articleRepo      database.ArticleRepository
	categories       *catalog.Categories
	userAgent        string
}

func NewImportFeedTask(feedConfig *feed.Config, httpClient *http.Client, parser *feed.Parser, filterer *feed.Filterer, contentExtractor *feed.ContentExtractor, articleRepo database.ArticleRepository, categories *catalog.Categories, userAgent string) *ImportFeedTask {
	task := NewTask(TaskTypeImportFeed, feedConfig.Name)
	task.Timeout = taskTimeout(feedConfig.Settings)

	return &ImportFeedTask{
		Task:             task,
		FeedConfig:       feedConfig,
		httpClient:       httpClient,
		parser:           parser,
		filterer:         filterer,
		contentExtractor: contentExtractor,
		articleRepo:      articleRepo,
		categories:       categories,
		userAgent:        userAgent,
	}
}

func (t *ImportFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.FeedConfig.Settings.Enabled {
		slog.Debug("Feed disabled, skipping", "feed", t.Source)
		return nil
	}

	data, err := fetch(ctx, t.httpClient, t.FeedConfig.URL, t.userAgent, t.timeout(), "")
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	_, items, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	kept := t.filterer.Kept(t.filterer.Run(items, t.FeedConfig.Filters))
	filteredCount := len(items) - len(kept)

	if maxItems := t.FeedConfig.Settings.MaxItems; maxItems > 0 && len(kept) > maxItems {
		kept = kept[:maxItems]
	}

	skippedCount := 0
	importedCount := 0

	for _, item := range kept {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		article, err := t.buildArticle(ctx, item)
		if err != nil {
			slog.Warn("Skipping feed item", "feed", t.Source, "link", item.Link, "error", err)
			skippedCount++
			continue
		}

		existing, err := t.articleRepo.GetArticleBySlug(article.Slug)
		if err != nil {
			return fmt.Errorf("failed to look up article: %w", err)
		}
		if existing != nil && existing.SourceURL != item.Link {
			slog.Warn("Skipping feed item, slug belongs to another article", "feed", t.Source, "slug", article.Slug, "link", item.Link, "existing_source", existing.SourceURL)
			skippedCount++
			continue
		}

		id, err := t.articleRepo.UpsertArticle(source.ToRecord(article, item.Link))
		if err != nil {
			return fmt.Errorf("failed to store article: %w", err)
		}

		slog.Debug("Article imported", "feed", t.Source, "slug", article.Slug, "id", id)
		importedCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"feed", t.Source,
		"duration", t.GetDuration(),
		"total", len(items),
		"filtered", filteredCount,
		"skipped", skippedCount,
		"imported", importedCount)

	return nil
}

func (t *ImportFeedTask) buildArticle(ctx context.Context, item feed.Item) (catalog.Article, error) {
	content := t.extractContent(ctx, item)

	article := catalog.Article{
		Slug:     cmp.Or(feed.SlugFromLink(item.Link), feed.Slugify(item.Title)),
		Title:    item.Title,
		Category: t.resolveCategory(item.Categories),
		Date:     dateOnly(item.PublishedAt),
		Excerpt:  catalog.Excerpt(content),
		Content:  content,
	}

	if err := catalog.ValidateDraft(article, t.categories); err != nil {
		return catalog.Article{}, err
	}

	return article, nil
}

// resolveCategory maps the first item category found in the table, falling
// back to the feed's default category.
func (t *ImportFeedTask) resolveCategory(itemCategories []string) string {
	if t.categories != nil {
		for _, name := range itemCategories {
			if info, ok := t.categories.Match(name); ok {
				return info.Code
			}
		}
	}
	return t.FeedConfig.Settings.DefaultCategory
}

// extractContent prefers the readable text of the linked page when the feed
// asks for it, then the text of the item body.
func (t *ImportFeedTask) extractContent(ctx context.Context, item feed.Item) string {
	pageURL, err := url.Parse(item.Link)
	if err != nil || item.Link == "" {
		pageURL = nil
	}

	if t.FeedConfig.Settings.FetchContent && pageURL != nil {
		text, err := t.extractPage(ctx, item.Link, pageURL)
		if err == nil {
			return text
		}
		slog.Debug("Falling back to feed item content", "link", item.Link, "error", err)
	}

	body := cmp.Or(item.Content, item.Description)
	if strings.TrimSpace(body) == "" {
		return ""
	}

	text, err := t.contentExtractor.Run([]byte(body), pageURL)
	if err != nil {
		return strings.Join(strings.Fields(body), " ")
	}

	return text
}

func (t *ImportFeedTask) extractPage(ctx context.Context, link string, pageURL *url.URL) (string, error) {
	data, err := fetch(ctx, t.httpClient, link, t.userAgent, t.timeout(), "text/html")
	if err != nil {
		return "", fmt.Errorf("failed to fetch article page: %w", err)
	}

	return t.contentExtractor.Run(data, pageURL)
}

// timeout bounds a single HTTP request.
func (t *ImportFeedTask) timeout() time.Duration {
	return time.Duration(t.FeedConfig.Settings.Timeout) * time.Second
}

// taskTimeout allows one request timeout for the feed, one per item page
// when content is fetched, and one more for parsing and storage.
func taskTimeout(settings feed.ConfigSettings) time.Duration {
	requests := 2
	if settings.FetchContent {
		requests += cmp.Or(settings.MaxItems, feed.DefaultMaxItems)
	}
	return time.Duration(requests) * time.Duration(cmp.Or(settings.Timeout, feed.DefaultTimeout)) * time.Second
}

func dateOnly(ts time.Time) time.Time {
	year, month, day := ts.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
