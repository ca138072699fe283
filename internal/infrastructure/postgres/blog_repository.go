package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neurixa/neurixa/internal/domain/blog"
	"github.com/neurixa/neurixa/pkg/apperr"
)

const articleColumns = `id, author_id, title, slug, content, excerpt, status, category_ids, tag_ids, view_count, meta_title, meta_description, deleted, created_at, updated_at, published_at, deleted_at`

// ArticleRepository persists articles. Category and tag assignments live in
// text[] columns on the article row, matching the aggregate boundary.
type ArticleRepository struct {
	pool *pgxpool.Pool
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

func (r *ArticleRepository) Save(ctx context.Context, a blog.Article) (blog.Article, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO articles (id, author_id, title, slug, content, excerpt, status, category_ids, tag_ids, view_count, meta_title, meta_description, deleted, created_at, updated_at, published_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			content = EXCLUDED.content,
			excerpt = EXCLUDED.excerpt,
			status = EXCLUDED.status,
			category_ids = EXCLUDED.category_ids,
			tag_ids = EXCLUDED.tag_ids,
			meta_title = EXCLUDED.meta_title,
			meta_description = EXCLUDED.meta_description,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at,
			published_at = EXCLUDED.published_at,
			deleted_at = EXCLUDED.deleted_at
	`, a.ID, a.AuthorID, a.Title, a.Slug, a.Content, a.Excerpt, string(a.Status), a.CategoryIDs, a.TagIDs,
		a.ViewCount, a.MetaTitle, a.MetaDescription, a.Deleted, a.CreatedAt, a.UpdatedAt, a.PublishedAt, a.DeletedAt)
	if err != nil {
		return blog.Article{}, err
	}
	return a, nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id string) (blog.Article, error) {
	return r.findOne(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
}

func (r *ArticleRepository) FindBySlug(ctx context.Context, slug string) (blog.Article, error) {
	return r.findOne(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug)
}

func (r *ArticleRepository) findOne(ctx context.Context, query string, arg any) (blog.Article, error) {
	a, err := scanArticle(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.Article{}, apperr.NotFound("Article not found")
		}
		return blog.Article{}, err
	}
	return a, nil
}

func (r *ArticleRepository) FindPage(ctx context.Context, filter blog.ArticleFilter) (blog.ArticlePage, error) {
	where := []string{"deleted = false"}
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("$%d = ANY(category_ids)", len(args)))
	}
	if filter.TagID != "" {
		args = append(args, filter.TagID)
		where = append(where, fmt.Sprintf("$%d = ANY(tag_ids)", len(args)))
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM articles`+whereSQL, args...).Scan(&total); err != nil {
		return blog.ArticlePage{}, err
	}

	args = append(args, filter.Size, filter.Page*filter.Size)
	query := fmt.Sprintf(`SELECT %s FROM articles%s ORDER BY published_at DESC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`,
		articleColumns, whereSQL, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return blog.ArticlePage{}, err
	}
	defer rows.Close()

	content := make([]blog.Article, 0, filter.Size)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return blog.ArticlePage{}, err
		}
		content = append(content, a)
	}
	if err := rows.Err(); err != nil {
		return blog.ArticlePage{}, err
	}

	totalPages := int((total + int64(filter.Size) - 1) / int64(filter.Size))
	return blog.ArticlePage{
		Content:       content,
		PageNumber:    filter.Page,
		PageSize:      filter.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

func (r *ArticleRepository) IncrementViewCount(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `UPDATE articles SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("Article not found: " + id)
	}
	return nil
}

func scanArticle(row pgx.Row) (blog.Article, error) {
	var (
		a      blog.Article
		status string
	)
	if err := row.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &status,
		&a.CategoryIDs, &a.TagIDs, &a.ViewCount, &a.MetaTitle, &a.MetaDescription, &a.Deleted,
		&a.CreatedAt, &a.UpdatedAt, &a.PublishedAt, &a.DeletedAt); err != nil {
		return blog.Article{}, err
	}
	a.Status = blog.ArticleStatus(status)
	return a, nil
}

var _ blog.ArticleRepository = (*ArticleRepository)(nil)

// CategoryRepository persists blog categories.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) Save(ctx context.Context, c blog.Category) (blog.Category, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (id, name, slug, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
	`, c.ID, c.Name, c.Slug, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return blog.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (blog.Category, error) {
	return r.findOne(ctx, `SELECT id, name, slug, description, created_at, updated_at FROM categories WHERE id = $1`, id)
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (blog.Category, error) {
	return r.findOne(ctx, `SELECT id, name, slug, description, created_at, updated_at FROM categories WHERE slug = $1`, slug)
}

func (r *CategoryRepository) findOne(ctx context.Context, query string, arg any) (blog.Category, error) {
	var c blog.Category
	err := r.pool.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.Category{}, apperr.NotFound("Category not found")
		}
		return blog.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]blog.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug, description, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []blog.Category
	for rows.Next() {
		var c blog.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("Category not found: " + id)
	}
	return nil
}

var _ blog.CategoryRepository = (*CategoryRepository)(nil)

// TagRepository persists blog tags.
type TagRepository struct {
	pool *pgxpool.Pool
}

func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

func (r *TagRepository) Save(ctx context.Context, t blog.Tag) (blog.Tag, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tags (id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			updated_at = EXCLUDED.updated_at
	`, t.ID, t.Name, t.Slug, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return blog.Tag{}, err
	}
	return t, nil
}

func (r *TagRepository) FindByID(ctx context.Context, id string) (blog.Tag, error) {
	return r.findOne(ctx, `SELECT id, name, slug, created_at, updated_at FROM tags WHERE id = $1`, id)
}

func (r *TagRepository) FindBySlug(ctx context.Context, slug string) (blog.Tag, error) {
	return r.findOne(ctx, `SELECT id, name, slug, created_at, updated_at FROM tags WHERE slug = $1`, slug)
}

func (r *TagRepository) findOne(ctx context.Context, query string, arg any) (blog.Tag, error) {
	var t blog.Tag
	err := r.pool.QueryRow(ctx, query, arg).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.Tag{}, apperr.NotFound("Tag not found")
		}
		return blog.Tag{}, err
	}
	return t, nil
}

func (r *TagRepository) FindAll(ctx context.Context) ([]blog.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug, created_at, updated_at FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []blog.Tag
	for rows.Next() {
		var t blog.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TagRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("Tag not found: " + id)
	}
	return nil
}

var _ blog.TagRepository = (*TagRepository)(nil)

// CommentRepository persists reader comments.
type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

const commentColumns = `id, article_id, author_name, author_email, body, status, deleted, created_at, updated_at`

func (r *CommentRepository) Save(ctx context.Context, c blog.Comment) (blog.Comment, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, article_id, author_name, author_email, body, status, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at
	`, c.ID, c.ArticleID, c.AuthorName, c.AuthorEmail, c.Body, string(c.Status), c.Deleted, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return blog.Comment{}, err
	}
	return c, nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (blog.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.Comment{}, apperr.NotFound("Comment not found: " + id)
		}
		return blog.Comment{}, err
	}
	return c, nil
}

func (r *CommentRepository) FindByArticle(ctx context.Context, articleID string, status blog.CommentStatus) ([]blog.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE article_id = $1 AND status = $2 AND deleted = false ORDER BY created_at ASC`,
		articleID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

func (r *CommentRepository) FindPending(ctx context.Context) ([]blog.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE status = $1 AND deleted = false ORDER BY created_at ASC`,
		string(blog.CommentPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

func collectComments(rows pgx.Rows) ([]blog.Comment, error) {
	var out []blog.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanComment(row pgx.Row) (blog.Comment, error) {
	var (
		c      blog.Comment
		status string
	)
	if err := row.Scan(&c.ID, &c.ArticleID, &c.AuthorName, &c.AuthorEmail, &c.Body, &status,
		&c.Deleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return blog.Comment{}, err
	}
	c.Status = blog.CommentStatus(status)
	return c, nil
}

var _ blog.CommentRepository = (*CommentRepository)(nil)
