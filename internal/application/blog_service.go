package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/neurixa/neurixa/internal/domain/blog"
	"github.com/neurixa/neurixa/pkg/apperr"
	"github.com/neurixa/neurixa/pkg/helpers"
)

// ArticleHit is one search result from the article index.
type ArticleHit struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

// ArticleSearcher queries the external search index. Indexing happens out of
// band in the event worker.
type ArticleSearcher interface {
	Search(ctx context.Context, query string, size int) ([]ArticleHit, error)
}

// BlogService drives the article, taxonomy, and comment use cases.
type BlogService struct {
	Articles   blog.ArticleRepository
	Categories blog.CategoryRepository
	Tags       blog.TagRepository
	Comments   blog.CommentRepository
	Publisher  *helpers.RabbitPublisher
	Searcher   ArticleSearcher
	Logger     *logrus.Logger
}

func NewBlogService(articles blog.ArticleRepository, categories blog.CategoryRepository, tags blog.TagRepository, comments blog.CommentRepository, publisher *helpers.RabbitPublisher, searcher ArticleSearcher, logger *logrus.Logger) *BlogService {
	return &BlogService{
		Articles:   articles,
		Categories: categories,
		Tags:       tags,
		Comments:   comments,
		Publisher:  publisher,
		Searcher:   searcher,
		Logger:     logger,
	}
}

func (s *BlogService) CreateDraft(ctx context.Context, authorID, title, content, excerpt string, categoryIDs, tagIDs []string) (blog.Article, error) {
	article, err := blog.NewDraft(authorID, title, content, excerpt)
	if err != nil {
		return blog.Article{}, err
	}
	if len(categoryIDs) > 0 || len(tagIDs) > 0 {
		article, err = article.Categorize(categoryIDs, tagIDs)
		if err != nil {
			return blog.Article{}, err
		}
	}
	if _, err := s.Articles.FindBySlug(ctx, article.Slug); err == nil {
		return blog.Article{}, apperr.Conflict("An article with this slug already exists: " + article.Slug)
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return blog.Article{}, err
	}
	return s.Articles.Save(ctx, article)
}

func (s *BlogService) UpdateArticle(ctx context.Context, id, title, content, excerpt string) (blog.Article, error) {
	article, err := s.Articles.FindByID(ctx, id)
	if err != nil {
		return blog.Article{}, err
	}
	updated, err := article.Update(title, content, excerpt)
	if err != nil {
		return blog.Article{}, err
	}
	return s.Articles.Save(ctx, updated)
}

// PublishArticle publishes and emits an article.published event.
func (s *BlogService) PublishArticle(ctx context.Context, id string) (blog.Article, error) {
	article, err := s.Articles.FindByID(ctx, id)
	if err != nil {
		return blog.Article{}, err
	}
	published, err := article.Publish()
	if err != nil {
		return blog.Article{}, err
	}
	saved, err := s.Articles.Save(ctx, published)
	if err != nil {
		return blog.Article{}, err
	}
	if s.Publisher != nil {
		evt := blog.ArticlePublishedEvent{
			ArticleID:   saved.ID,
			Slug:        saved.Slug,
			Title:       saved.Title,
			Excerpt:     saved.Excerpt,
			PublishedAt: *saved.PublishedAt,
		}
		if pubErr := s.Publisher.PublishJSON(ctx, blog.EventArticlePublished, evt); pubErr != nil {
			s.Logger.WithError(pubErr).WithField("article_id", saved.ID).Warn("publish event failed")
		}
	}
	return saved, nil
}

func (s *BlogService) UnpublishArticle(ctx context.Context, id string) (blog.Article, error) {
	article, err := s.Articles.FindByID(ctx, id)
	if err != nil {
		return blog.Article{}, err
	}
	unpublished, err := article.Unpublish()
	if err != nil {
		return blog.Article{}, err
	}
	return s.Articles.Save(ctx, unpublished)
}

func (s *BlogService) DeleteArticle(ctx context.Context, id string) error {
	article, err := s.Articles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := article.SoftDelete()
	if err != nil {
		return err
	}
	_, err = s.Articles.Save(ctx, deleted)
	return err
}

func (s *BlogService) RestoreArticle(ctx context.Context, id string) (blog.Article, error) {
	article, err := s.Articles.FindByID(ctx, id)
	if err != nil {
		return blog.Article{}, err
	}
	restored, err := article.Restore()
	if err != nil {
		return blog.Article{}, err
	}
	return s.Articles.Save(ctx, restored)
}

// GetPublishedBySlug resolves a published article for public reads and bumps
// its view counter. The counter write is fire-and-forget.
func (s *BlogService) GetPublishedBySlug(ctx context.Context, slug string) (blog.Article, error) {
	article, err := s.Articles.FindBySlug(ctx, slug)
	if err != nil {
		return blog.Article{}, err
	}
	if article.Deleted || article.Status != blog.StatusPublished {
		return blog.Article{}, apperr.NotFound("Article not found: " + slug)
	}
	if err := s.Articles.IncrementViewCount(ctx, article.ID); err != nil {
		s.Logger.WithError(err).WithField("article_id", article.ID).Warn("view count increment failed")
	} else {
		article.ViewCount++
	}
	return article, nil
}

func (s *BlogService) ListPublished(ctx context.Context, filter blog.ArticleFilter) (blog.ArticlePage, error) {
	filter.Status = blog.StatusPublished
	if filter.Page < 0 {
		filter.Page = 0
	}
	if filter.Size <= 0 || filter.Size > 100 {
		filter.Size = 20
	}
	return s.Articles.FindPage(ctx, filter)
}

// SearchArticles queries the search index; without one it returns empty.
func (s *BlogService) SearchArticles(ctx context.Context, query string, size int) ([]ArticleHit, error) {
	if s.Searcher == nil {
		return []ArticleHit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Searcher.Search(ctx, query, size)
}

// CategorizeArticle replaces the category and tag assignments of an article.
func (s *BlogService) CategorizeArticle(ctx context.Context, id string, categoryIDs, tagIDs []string) (blog.Article, error) {
	article, err := s.Articles.FindByID(ctx, id)
	if err != nil {
		return blog.Article{}, err
	}
	categorized, err := article.Categorize(categoryIDs, tagIDs)
	if err != nil {
		return blog.Article{}, err
	}
	return s.Articles.Save(ctx, categorized)
}

// SetArticleMeta sets the SEO title and description.
func (s *BlogService) SetArticleMeta(ctx context.Context, id, metaTitle, metaDescription string) (blog.Article, error) {
	article, err := s.Articles.FindByID(ctx, id)
	if err != nil {
		return blog.Article{}, err
	}
	updated, err := article.SetMeta(metaTitle, metaDescription)
	if err != nil {
		return blog.Article{}, err
	}
	return s.Articles.Save(ctx, updated)
}

// --- Taxonomy ---

func (s *BlogService) CreateCategory(ctx context.Context, name, description string) (blog.Category, error) {
	category, err := blog.NewCategory(name, description)
	if err != nil {
		return blog.Category{}, err
	}
	if _, err := s.Categories.FindBySlug(ctx, category.Slug); err == nil {
		return blog.Category{}, apperr.Conflict("Category already exists: " + category.Slug)
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return blog.Category{}, err
	}
	return s.Categories.Save(ctx, category)
}

func (s *BlogService) UpdateCategory(ctx context.Context, id, name, description string) (blog.Category, error) {
	category, err := s.Categories.FindByID(ctx, id)
	if err != nil {
		return blog.Category{}, err
	}
	renamed, err := category.Rename(name, description)
	if err != nil {
		return blog.Category{}, err
	}
	return s.Categories.Save(ctx, renamed)
}

func (s *BlogService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.Categories.FindByID(ctx, id); err != nil {
		return err
	}
	return s.Categories.DeleteByID(ctx, id)
}

func (s *BlogService) ListCategories(ctx context.Context) ([]blog.Category, error) {
	return s.Categories.FindAll(ctx)
}

func (s *BlogService) CreateTag(ctx context.Context, name string) (blog.Tag, error) {
	tag, err := blog.NewTag(name)
	if err != nil {
		return blog.Tag{}, err
	}
	if _, err := s.Tags.FindBySlug(ctx, tag.Slug); err == nil {
		return blog.Tag{}, apperr.Conflict("Tag already exists: " + tag.Slug)
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return blog.Tag{}, err
	}
	return s.Tags.Save(ctx, tag)
}

func (s *BlogService) DeleteTag(ctx context.Context, id string) error {
	if _, err := s.Tags.FindByID(ctx, id); err != nil {
		return err
	}
	return s.Tags.DeleteByID(ctx, id)
}

func (s *BlogService) ListTags(ctx context.Context) ([]blog.Tag, error) {
	return s.Tags.FindAll(ctx)
}

// --- Comments ---

// AddComment accepts a reader comment on a published article; it starts out
// pending moderation.
func (s *BlogService) AddComment(ctx context.Context, articleID, authorName, authorEmail, body string) (blog.Comment, error) {
	article, err := s.Articles.FindByID(ctx, articleID)
	if err != nil {
		return blog.Comment{}, err
	}
	if article.Deleted || article.Status != blog.StatusPublished {
		return blog.Comment{}, apperr.InvalidState("Comments are only accepted on published articles.")
	}
	comment, err := blog.NewComment(articleID, authorName, authorEmail, body)
	if err != nil {
		return blog.Comment{}, err
	}
	return s.Comments.Save(ctx, comment)
}

func (s *BlogService) ApproveComment(ctx context.Context, id string) (blog.Comment, error) {
	comment, err := s.Comments.FindByID(ctx, id)
	if err != nil {
		return blog.Comment{}, err
	}
	approved, err := comment.Approve()
	if err != nil {
		return blog.Comment{}, err
	}
	saved, err := s.Comments.Save(ctx, approved)
	if err != nil {
		return blog.Comment{}, err
	}
	if s.Publisher != nil {
		evt := blog.CommentApprovedEvent{
			CommentID:  saved.ID,
			ArticleID:  saved.ArticleID,
			ApprovedAt: time.Now().UTC(),
		}
		if pubErr := s.Publisher.PublishJSON(ctx, blog.EventCommentApproved, evt); pubErr != nil {
			s.Logger.WithError(pubErr).WithField("comment_id", saved.ID).Warn("publish event failed")
		}
	}
	return saved, nil
}

func (s *BlogService) RejectComment(ctx context.Context, id string) (blog.Comment, error) {
	comment, err := s.Comments.FindByID(ctx, id)
	if err != nil {
		return blog.Comment{}, err
	}
	rejected, err := comment.Reject()
	if err != nil {
		return blog.Comment{}, err
	}
	return s.Comments.Save(ctx, rejected)
}

// ListApprovedComments is the public comment feed for an article.
func (s *BlogService) ListApprovedComments(ctx context.Context, articleID string) ([]blog.Comment, error) {
	return s.Comments.FindByArticle(ctx, articleID, blog.CommentApproved)
}

// ListPendingComments is the moderation queue.
func (s *BlogService) ListPendingComments(ctx context.Context) ([]blog.Comment, error) {
	return s.Comments.FindPending(ctx)
}
