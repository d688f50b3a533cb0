package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-user-warehouse/internal/domain/entity"
	"go-user-warehouse/internal/domain/repository"
)

// UserRepository keeps the full RecordStore contract in process memory. It
// backs tests and APP_STORE=memory runs. Unlike the Datastore implementation,
// the mutex makes the email-uniqueness check atomic with the write.
type UserRepository struct {
	mu     sync.Mutex
	users  map[int64]*entity.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]*entity.User), nextID: 1}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(u.Email, 0) {
		return "", repository.ErrDuplicateEmail
	}
	id := r.nextID
	r.nextID++

	now := time.Now()
	u.ID = strconv.FormatInt(id, 10)
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[id] = clone(u)
	return u.ID, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[n]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) ListAll(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(), nil
}

func (r *UserRepository) ListPage(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.listLocked()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if end > len(all) || end < offset {
		end = len(all)
	}
	return all[offset:end], nil
}

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

func (r *UserRepository) Update(_ context.Context, id string, u *entity.User) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return repository.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[n]
	if !ok {
		return repository.ErrNotFound
	}
	if existing.Email != u.Email && r.emailTaken(u.Email, n) {
		return repository.ErrDuplicateEmail
	}

	u.ID = id
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	r.users[n] = clone(u)
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return repository.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[n]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, n)
	return nil
}

func (r *UserRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *UserRepository) BulkCreate(ctx context.Context, users []*entity.User) (int, error) {
	success := 0
	for _, u := range users {
		if _, err := r.Create(ctx, u); err == nil {
			success++
		}
	}
	return success, nil
}

func (r *UserRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[int64]*entity.User)
	return nil
}

func (r *UserRepository) emailTaken(email string, exclude int64) bool {
	for id, u := range r.users {
		if id != exclude && u.Email == email {
			return true
		}
	}
	return false
}

// listLocked returns records ordered by createdAt descending, newest id first
// on ties so the order stays stable within a burst of creates.
func (r *UserRepository) listLocked() []*entity.User {
	all := make([]*entity.User, 0, len(r.users))
	ids := make(map[*entity.User]int64, len(r.users))
	for id, u := range r.users {
		c := clone(u)
		all = append(all, c)
		ids[c] = id
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return ids[all[i]] > ids[all[j]]
	})
	return all
}

func clone(u *entity.User) *entity.User {
	c := *u
	return &c
}

var _ repository.RecordStore = (*UserRepository)(nil)
