package repository

import (
	"context"
	"errors"

	"go-user-warehouse/internal/domain/entity"
)

var (
	// ErrNotFound covers both a missing record and a malformed id; callers
	// must not be able to tell the two apart.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail signals the uniqueness violation on create/update.
	ErrDuplicateEmail = errors.New("email already exists")
)

// RecordStore is the operational store for user records.
//
// The email-uniqueness guarantee is check-then-act: the lookup and the write
// are separate store calls with no transaction between them, so concurrent
// creates with the same email can both pass the check. Known limitation,
// preserved on purpose.
type RecordStore interface {
	// Create allocates an id, stamps createdAt/updatedAt and persists the
	// record. Returns ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, u *entity.User) (string, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail is an exact, case-sensitive lookup limited to one result.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListAll returns every record ordered by createdAt descending.
	ListAll(ctx context.Context) ([]*entity.User, error)
	ListPage(ctx context.Context, limit, offset int) ([]*entity.User, error)
	// Search loads the full set and filters in memory: case-insensitive
	// substring on name or email, verbatim substring on phone.
	Search(ctx context.Context, term string) ([]*entity.User, error)
	// Update replaces every field except ID and CreatedAt. Returns
	// ErrNotFound or, when the new email belongs to another record,
	// ErrDuplicateEmail.
	Update(ctx context.Context, id string, u *entity.User) error
	Delete(ctx context.Context, id string) error
	// Count runs a key-only scan; it never materializes records.
	Count(ctx context.Context) (int, error)
	// BulkCreate skips records whose email is already taken and flushes
	// accumulated writes in batches. Returns how many records were created.
	BulkCreate(ctx context.Context, users []*entity.User) (int, error)
	DeleteAll(ctx context.Context) error
}
