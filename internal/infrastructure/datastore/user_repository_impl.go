package datastore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	ds "cloud.google.com/go/datastore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	"go-user-warehouse/internal/domain/entity"
	"go-user-warehouse/internal/domain/repository"
)

const (
	kind = "User"
	// Writes and deletes are flushed to the store in groups of this size to
	// bound per-call payload size.
	batchSize = 500
)

// userEntity is the stored shape of a user record. Property names match the
// live data; renaming any of them would orphan existing entities.
type userEntity struct {
	Name      string    `datastore:"name"`
	DOB       time.Time `datastore:"dob"`
	Email     string    `datastore:"email"`
	Password  string    `datastore:"password,noindex"`
	Phone     string    `datastore:"phone"`
	Gender    string    `datastore:"gender"`
	Address   string    `datastore:"address,noindex"`
	CreatedAt time.Time `datastore:"createdAt"`
	UpdatedAt time.Time `datastore:"updatedAt"`
}

type UserRepository struct {
	client *ds.Client
	logger *logrus.Logger
}

func NewUserRepository(client *ds.Client, logger *logrus.Logger) *UserRepository {
	return &UserRepository{client: client, logger: logger}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) (string, error) {
	existing, err := r.GetByEmail(ctx, u.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	if existing != nil {
		return "", repository.ErrDuplicateEmail
	}

	keys, err := r.client.AllocateIDs(ctx, []*ds.Key{ds.IncompleteKey(kind, nil)})
	if err != nil {
		return "", err
	}
	key := keys[0]

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := r.client.Put(ctx, key, toEntity(u)); err != nil {
		return "", err
	}
	u.ID = strconv.FormatInt(key.ID, 10)
	return u.ID, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	key, ok := parseKey(id)
	if !ok {
		// A malformed id presents exactly like a missing record.
		return nil, repository.ErrNotFound
	}
	var e userEntity
	if err := r.client.Get(ctx, key, &e); err != nil {
		if errors.Is(err, ds.ErrNoSuchEntity) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return fromEntity(key, &e), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	q := ds.NewQuery(kind).FilterField("email", "=", email).Limit(1)
	it := r.client.Run(ctx, q)

	var e userEntity
	key, err := it.Next(&e)
	if errors.Is(err, iterator.Done) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromEntity(key, &e), nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, ds.NewQuery(kind).Order("-createdAt"))
}

func (r *UserRepository) ListPage(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	q := ds.NewQuery(kind).Order("-createdAt").Limit(limit).Offset(offset)
	return r.list(ctx, q)
}

func (r *UserRepository) list(ctx context.Context, q *ds.Query) ([]*entity.User, error) {
	var entities []*userEntity
	keys, err := r.client.GetAll(ctx, q, &entities)
	if err != nil {
		return nil, err
	}
	users := make([]*entity.User, 0, len(entities))
	for i, e := range entities {
		users = append(users, fromEntity(keys[i], e))
	}
	return users, nil
}

// Search loads the full record set and filters in memory. There is no index
// behind this: name and email match case-insensitively, phone matches only on
// the verbatim stored string.
func (r *UserRepository) Search(ctx context.Context, term string) ([]*entity.User, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(term)
	matched := make([]*entity.User, 0)
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Name), lower) ||
			strings.Contains(strings.ToLower(u.Email), lower) ||
			strings.Contains(u.Phone, term) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, u *entity.User) error {
	key, ok := parseKey(id)
	if !ok {
		return repository.ErrNotFound
	}
	var existing userEntity
	if err := r.client.Get(ctx, key, &existing); err != nil {
		if errors.Is(err, ds.ErrNoSuchEntity) {
			return repository.ErrNotFound
		}
		return err
	}

	if existing.Email != u.Email {
		other, err := r.GetByEmail(ctx, u.Email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if other != nil {
			return repository.ErrDuplicateEmail
		}
	}

	// Full replace; only the original createdAt survives.
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	if _, err := r.client.Put(ctx, key, toEntity(u)); err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	key, ok := parseKey(id)
	if !ok {
		return repository.ErrNotFound
	}
	var e userEntity
	if err := r.client.Get(ctx, key, &e); err != nil {
		if errors.Is(err, ds.ErrNoSuchEntity) {
			return repository.ErrNotFound
		}
		return err
	}
	return r.client.Delete(ctx, key)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	it := r.client.Run(ctx, ds.NewQuery(kind).KeysOnly())
	count := 0
	for {
		_, err := it.Next(nil)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func (r *UserRepository) BulkCreate(ctx context.Context, users []*entity.User) (int, error) {
	success := 0
	keys := make([]*ds.Key, 0, batchSize)
	entities := make([]*userEntity, 0, batchSize)

	for _, u := range users {
		existing, err := r.GetByEmail(ctx, u.Email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			r.logger.WithError(err).WithField("email", u.Email).Error("bulk create: lookup failed, skipping record")
			continue
		}
		if existing != nil {
			continue
		}

		allocated, err := r.client.AllocateIDs(ctx, []*ds.Key{ds.IncompleteKey(kind, nil)})
		if err != nil {
			r.logger.WithError(err).WithField("email", u.Email).Error("bulk create: id allocation failed, skipping record")
			continue
		}

		now := time.Now()
		u.CreatedAt = now
		u.UpdatedAt = now
		keys = append(keys, allocated[0])
		entities = append(entities, toEntity(u))

		if len(entities) >= batchSize {
			if _, err := r.client.PutMulti(ctx, keys, entities); err != nil {
				return success, err
			}
			success += len(entities)
			keys = keys[:0]
			entities = entities[:0]
		}
	}

	if len(entities) > 0 {
		if _, err := r.client.PutMulti(ctx, keys, entities); err != nil {
			return success, err
		}
		success += len(entities)
	}
	return success, nil
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	it := r.client.Run(ctx, ds.NewQuery(kind).KeysOnly())
	keys := make([]*ds.Key, 0, batchSize)
	for {
		key, err := it.Next(nil)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return err
		}
		keys = append(keys, key)
		if len(keys) >= batchSize {
			if err := r.client.DeleteMulti(ctx, keys); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if len(keys) > 0 {
		return r.client.DeleteMulti(ctx, keys)
	}
	return nil
}

func parseKey(id string) (*ds.Key, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, false
	}
	return ds.IDKey(kind, n, nil), true
}

func toEntity(u *entity.User) *userEntity {
	return &userEntity{
		Name:      u.Name,
		DOB:       u.DOB,
		Email:     u.Email,
		Password:  u.Password,
		Phone:     u.Phone,
		Gender:    u.Gender,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func fromEntity(key *ds.Key, e *userEntity) *entity.User {
	return &entity.User{
		ID:        strconv.FormatInt(key.ID, 10),
		Name:      e.Name,
		DOB:       e.DOB,
		Email:     e.Email,
		Password:  e.Password,
		Phone:     e.Phone,
		Gender:    e.Gender,
		Address:   e.Address,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

var _ repository.RecordStore = (*UserRepository)(nil)
