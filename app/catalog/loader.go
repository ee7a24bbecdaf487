package catalog

import (
	"cmp"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed
var seedFS embed.FS

const excerptLength = 160

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// SeedFS returns the sample articles shipped with the binary.
func SeedFS() fs.FS {
	sub, err := fs.Sub(seedFS, "seed/articles")
	if err != nil {
		panic(err)
	}
	return sub
}

// Loader reads article files from a file system. Every *.yml/*.yaml file is an
// article record, every *.md file is Markdown with YAML or TOML front matter.
// The slug is the file name without its extension.
type Loader struct {
	fsys       fs.FS
	categories *Categories
}

func NewLoader(fsys fs.FS, categories *Categories) *Loader {
	return &Loader{
		fsys:       fsys,
		categories: categories,
	}
}

func NewDirLoader(dir string, categories *Categories) *Loader {
	return NewLoader(os.DirFS(dir), categories)
}

// Run loads every article file and returns the articles ordered by ID.
func (l *Loader) Run() ([]Article, error) {
	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml", "*.md"} {
		matches, err := fs.Glob(l.fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to find %s files: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	articles := make([]Article, 0, len(files))
	for _, file := range files {
		article, err := l.LoadArticle(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Article loaded", "slug", article.Slug, "id", article.ID, "category", article.Category)
		articles = append(articles, article)
	}

	slices.SortStableFunc(articles, func(a, b Article) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return articles, nil
}

// LoadArticle parses and validates a single article file.
func (l *Loader) LoadArticle(file string) (Article, error) {
	data, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		return Article{}, fmt.Errorf("failed to read file: %w", err)
	}

	ext := path.Ext(file)
	slug := strings.TrimSuffix(path.Base(file), ext)

	var raw rawArticle
	if ext == ".md" {
		raw, err = parseMarkdown(data)
	} else {
		raw, err = parseRecord(data)
	}
	if err != nil {
		return Article{}, err
	}

	return l.buildArticle(slug, raw)
}

func parseRecord(data []byte) (rawArticle, error) {
	var raw rawArticle
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return rawArticle{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return raw, nil
}

func (l *Loader) buildArticle(slug string, raw rawArticle) (Article, error) {
	date, err := ParseDate(raw.Date)
	if err != nil {
		return Article{}, fmt.Errorf("invalid date '%s': %w", raw.Date, err)
	}

	article := Article{
		ID:       raw.ID,
		Slug:     slug,
		Title:    strings.TrimSpace(raw.Title),
		Category: strings.TrimSpace(raw.Category),
		Date:     date,
		Excerpt:  strings.TrimSpace(raw.Excerpt),
		Content:  strings.TrimSpace(raw.Content),
	}

	if article.Excerpt == "" {
		article.Excerpt = Excerpt(article.Content)
	}

	if err := ValidateArticle(article, l.categories); err != nil {
		return Article{}, err
	}

	return article, nil
}

// ValidateArticle checks the per-record invariants of an article. A nil
// category table skips the category check.
func ValidateArticle(article Article, categories *Categories) error {
	if article.ID <= 0 {
		return fmt.Errorf("id must be positive, got %d", article.ID)
	}
	return ValidateDraft(article, categories)
}

// ValidateDraft is ValidateArticle for an article whose id is not assigned yet.
func ValidateDraft(article Article, categories *Categories) error {
	requiredFields := map[string]string{
		"slug":     article.Slug,
		"title":    article.Title,
		"category": article.Category,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if !slugPattern.MatchString(article.Slug) {
		return fmt.Errorf("slug '%s' is not URL-safe", article.Slug)
	}

	if categories != nil && !categories.Known(article.Category) {
		return fmt.Errorf("unknown category '%s'", article.Category)
	}

	return nil
}

// ParseDate accepts an ISO calendar date, optionally followed by a time part
// which is dropped.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > len(DateLayout) && (value[len(DateLayout)] == 'T' || value[len(DateLayout)] == ' ') {
		value = value[:len(DateLayout)]
	}
	return time.Parse(DateLayout, value)
}

// Excerpt shortens content to a summary of at most excerptLength characters,
// cut at a word boundary.
func Excerpt(content string) string {
	content = strings.Join(strings.Fields(content), " ")

	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}

	cut := string(runes[:excerptLength])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
