package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/rs/zerolog"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	users *Collection[[]models.User]

	// public user projection, rebuilt whenever the users file version changes
	mu        sync.Mutex
	publicSHA string
	public    map[string]models.PublicUser
}

// NewUserRepo creates a new user repository
func NewUserRepo(backend gitstore.Backend, path string, opts CollectionOptions, log zerolog.Logger) UserRepository {
	return &userRepo{
		users: NewCollection(backend, path, func() []models.User { return []models.User{} }, opts, log),
	}
}

// List returns a copy of all users
func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	users, err := r.users.Read(ctx)
	if err != nil {
		return nil, err
	}
	return append([]models.User(nil), users...), nil
}

// FindByID looks up a user by exact id
func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.ID == id })
}

// FindByUsername looks up a user ignoring letter case
func (r *userRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return strings.EqualFold(u.Username, username) })
}

// FindByEmail looks up a user ignoring letter case
func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepo) find(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	users, err := r.users.Read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(&users[i]) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Create appends user. Username and email uniqueness is checked again
// against the freshly read file inside the mutation.
func (r *userRepo) Create(ctx context.Context, user models.User) MutationResult[models.User] {
	res := r.users.Mutate(ctx, "Add user: "+user.Username, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if strings.EqualFold(users[i].Username, user.Username) {
				return nil, ErrDuplicateUsername
			}
			if strings.EqualFold(users[i].Email, user.Email) {
				return nil, ErrDuplicateEmail
			}
		}
		return append(users, user), nil
	})
	return mapResult(res, func([]models.User) models.User { return user })
}

// PublicUserMap returns id -> public projection for every user
func (r *userRepo) PublicUserMap(ctx context.Context) (map[string]models.PublicUser, error) {
	users, sha, err := r.users.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.public != nil && r.publicSHA == sha {
		return r.public, nil
	}

	m := make(map[string]models.PublicUser, len(users))
	for i := range users {
		m[users[i].ID] = users[i].Public()
	}
	r.public, r.publicSHA = m, sha
	return m, nil
}

// Invalidate drops the cached users and their public projection
func (r *userRepo) Invalidate() {
	r.users.Invalidate()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.public, r.publicSHA = nil, ""
}
