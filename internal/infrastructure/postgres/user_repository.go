package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neurixa/neurixa/internal/domain/user"
	"github.com/neurixa/neurixa/pkg/apperr"
)

const userColumns = `id, username, email, password_hash, role, locked, email_verified, failed_login_attempts, created_at, updated_at`

// UserRepository is the pgx-backed account store. One row per account;
// username and email carry unique indexes.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Save upserts by id. The write touches a single row, so it is atomic at
// the document boundary.
func (r *UserRepository) Save(ctx context.Context, a user.Account) (user.Account, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, locked, email_verified, failed_login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			locked = EXCLUDED.locked,
			email_verified = EXCLUDED.email_verified,
			failed_login_attempts = EXCLUDED.failed_login_attempts,
			updated_at = EXCLUDED.updated_at
	`, a.ID, a.Username, a.Email, a.PasswordHash, string(a.Role), a.Locked, a.EmailVerified, a.FailedLoginAttempts, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return user.Account{}, err
	}
	return a, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (user.Account, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (user.Account, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.Account, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (user.Account, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Account{}, apperr.NotFound("User not found")
		}
		return user.Account{}, err
	}
	return a, nil
}

// sortColumns whitelists sortable fields; anything else falls back to
// created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"username":  "username",
	"email":     "email",
}

func (r *UserRepository) FindPage(ctx context.Context, filter user.ListFilter) (user.Page, error) {
	var (
		where []string
		args  []any
	)
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(username ILIKE $%d OR email ILIKE $%d)", n, n))
	}
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Locked != nil {
		args = append(args, *filter.Locked)
		where = append(where, fmt.Sprintf("locked = $%d", len(args)))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`+whereSQL, args...).Scan(&total); err != nil {
		return user.Page{}, err
	}

	sortCol, ok := sortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(filter.SortDirection, "asc") {
		dir = "ASC"
	}

	args = append(args, filter.Size, filter.Page*filter.Size)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		userColumns, whereSQL, sortCol, dir, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return user.Page{}, err
	}
	defer rows.Close()

	content := make([]user.Account, 0, filter.Size)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return user.Page{}, err
		}
		content = append(content, a)
	}
	if err := rows.Err(); err != nil {
		return user.Page{}, err
	}

	totalPages := int((total + int64(filter.Size) - 1) / int64(filter.Size))
	return user.Page{
		Content:       content,
		PageNumber:    filter.Page,
		PageSize:      filter.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE role = $1`, string(role)).Scan(&n)
	return n, err
}

func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("User not found: " + id)
	}
	return nil
}

func scanAccount(row pgx.Row) (user.Account, error) {
	var (
		a    user.Account
		role string
	)
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role, &a.Locked,
		&a.EmailVerified, &a.FailedLoginAttempts, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return user.Account{}, err
	}
	a.Role = user.Role(role)
	return a, nil
}

var _ user.Repository = (*UserRepository)(nil)
