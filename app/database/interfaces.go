package database

type ArticleRepository interface {
	GetAllArticles() ([]Article, error)
	GetArticleBySlug(slug string) (*Article, error)
	GetArticleCount() (int, error)

	UpsertArticle(article Article) (int, error)
}
