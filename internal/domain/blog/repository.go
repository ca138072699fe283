package blog

import "context"

// ArticlePage is one slice of an article listing.
type ArticlePage struct {
	Content       []Article
	PageNumber    int
	PageSize      int
	TotalElements int64
	TotalPages    int
}

// ArticleFilter narrows listings. Zero values mean "no filter".
type ArticleFilter struct {
	Status     ArticleStatus
	CategoryID string
	TagID      string
	Page       int
	Size       int
}

// ArticleRepository persists articles. Lookups return apperr.KindNotFound
// when nothing matches.
type ArticleRepository interface {
	Save(ctx context.Context, a Article) (Article, error)
	FindByID(ctx context.Context, id string) (Article, error)
	FindBySlug(ctx context.Context, slug string) (Article, error)
	FindPage(ctx context.Context, filter ArticleFilter) (ArticlePage, error)
	// IncrementViewCount bumps the counter atomically at the row boundary.
	IncrementViewCount(ctx context.Context, id string) error
}

type CategoryRepository interface {
	Save(ctx context.Context, c Category) (Category, error)
	FindByID(ctx context.Context, id string) (Category, error)
	FindBySlug(ctx context.Context, slug string) (Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	DeleteByID(ctx context.Context, id string) error
}

type TagRepository interface {
	Save(ctx context.Context, t Tag) (Tag, error)
	FindByID(ctx context.Context, id string) (Tag, error)
	FindBySlug(ctx context.Context, slug string) (Tag, error)
	FindAll(ctx context.Context) ([]Tag, error)
	DeleteByID(ctx context.Context, id string) error
}

type CommentRepository interface {
	Save(ctx context.Context, c Comment) (Comment, error)
	FindByID(ctx context.Context, id string) (Comment, error)
	FindByArticle(ctx context.Context, articleID string, status CommentStatus) ([]Comment, error)
	FindPending(ctx context.Context) ([]Comment, error)
}
