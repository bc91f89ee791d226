package store

import (
	"context"

	"github.com/lu-zhengda/tagside/internal/domain"
)

// Store defines the persistence interface for the application.
type Store interface {
	// Accounts
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, accountID string, id int64) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, accountID, slug string) (*domain.Tag, error)
	ListTags(ctx context.Context, accountID string) ([]domain.Tag, error)
	TagTree(ctx context.Context, accountID string, display domain.Display) ([]domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	SetDisplayOrder(ctx context.Context, accountID string, ids []int64) error
	NextDisplayOrder(ctx context.Context, accountID string, parentID int64) (int, error)
	DeleteTag(ctx context.Context, accountID string, id int64) error

	// Emails
	UpsertEmail(ctx context.Context, email *domain.Email, accountID string) error
	GetEmail(ctx context.Context, id string) (*domain.Email, error)
	SetEmailRead(ctx context.Context, emailID string, read bool) error
	DeleteEmail(ctx context.Context, id string) error

	// View state
	CollapsedTags(ctx context.Context, accountID string) (domain.TagSet, error)
	SetCollapsed(ctx context.Context, accountID string, tagID int64, collapsed bool) error
	Organizing(ctx context.Context, accountID string) (bool, error)
	SetOrganizing(ctx context.Context, accountID string, on bool) error

	// Lifecycle
	Close() error
}
