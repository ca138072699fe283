package user

import "context"

// ListFilter narrows a paginated account scan. Zero values mean "no filter".
type ListFilter struct {
	Search        string // matches username or email, case-insensitive substring
	Role          Role
	Locked        *bool
	Page          int
	Size          int
	SortBy        string // createdAt, updatedAt, username, email
	SortDirection string // asc or desc
}

// Page is one slice of a filtered account listing.
type Page struct {
	Content       []Account
	PageNumber    int
	PageSize      int
	TotalElements int64
	TotalPages    int
}

func (p Page) HasNext() bool     { return p.PageNumber+1 < p.TotalPages }
func (p Page) HasPrevious() bool { return p.PageNumber > 0 }

// Repository is the persistence port for accounts. Lookups return
// apperr.KindNotFound when no account matches; a nil Account pointer never
// crosses this boundary on the success path.
type Repository interface {
	Save(ctx context.Context, a Account) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
	FindByUsername(ctx context.Context, username string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindPage(ctx context.Context, filter ListFilter) (Page, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	DeleteByID(ctx context.Context, id string) error
}
