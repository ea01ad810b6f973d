package service

import (
	"context"
	"strings"
	"time"

	"github.com/bilingual-blog-api/internal/apperr"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/repository"
	"github.com/bilingual-blog-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const authorArticlesLimit = 100

// userService implements UserService
type userService struct {
	users      repository.UserRepository
	articles   repository.ArticleRepository
	bcryptCost int
	log        zerolog.Logger
}

func newUserService(users repository.UserRepository, articles repository.ArticleRepository, bcryptCost int, log zerolog.Logger) *userService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		users:      users,
		articles:   articles,
		bcryptCost: bcryptCost,
		log:        log.With().Str("service", "user").Logger(),
	}
}

// Register creates an author account
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if errs := validation.ValidateRegister(req); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load users")
	}
	if existing != nil {
		return nil, apperr.Conflict("username already taken")
	}
	existing, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load users")
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password").WithCause(err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           "usr_" + strings.Split(uuid.NewString(), "-")[0],
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Role:         models.RoleAuthor,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res := s.users.Create(ctx, user)
	if err := mutationError(res, "failed to save user"); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return &res.Value, nil
}

// Login checks credentials. The username field also accepts an email.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if errs := validation.ValidateLogin(req); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load users")
	}
	if user == nil {
		user, err = s.users.FindByEmail(ctx, req.Username)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to load users")
		}
	}
	if user == nil {
		return nil, apperr.Unauthorized("invalid username/email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("invalid username/email or password")
	}
	return user, nil
}

// Me returns the public profile of the calling user
func (s *userService) Me(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load user")
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	pub := user.Public()
	return &pub, nil
}

// Authors lists every account without private fields
func (s *userService) Authors(ctx context.Context) ([]models.Author, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load users")
	}
	authors := make([]models.Author, 0, len(users))
	for i := range users {
		authors = append(authors, models.Author{PublicUser: users[i].Public(), CreatedAt: users[i].CreatedAt})
	}
	return authors, nil
}

// Author returns one author with their published articles
func (s *userService) Author(ctx context.Context, id string) (*models.AuthorProfile, error) {
	if id == "" {
		return nil, apperr.BadRequest("author id is required")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load user")
	}
	if user == nil {
		return nil, apperr.NotFound("author not found")
	}

	page, err := s.articles.Query(ctx, models.ArticleFilter{
		Status:   models.StatusPublished,
		AuthorID: id,
		Limit:    authorArticlesLimit,
	})
	if err != nil {
		return nil, apperr.FromStore(err, "failed to load articles")
	}

	return &models.AuthorProfile{
		Author:        models.Author{PublicUser: user.Public(), CreatedAt: user.CreatedAt},
		Articles:      page.Articles,
		TotalArticles: page.Total,
	}, nil
}
