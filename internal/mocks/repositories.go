package mocks

import (
	"context"
	"strings"

	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users       map[string]*models.User
	ReadError   error
	CreateFunc  func(ctx context.Context, user models.User) repository.MutationResult[models.User]
	CreateCalls int
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	users := make([]models.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Users[id], nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	for _, u := range m.Users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user models.User) repository.MutationResult[models.User] {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.Users[user.ID] = &user
	return repository.MutationResult[models.User]{Value: user, Persisted: true}
}

func (m *MockUserRepository) PublicUserMap(ctx context.Context) (map[string]models.PublicUser, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	out := make(map[string]models.PublicUser, len(m.Users))
	for id, u := range m.Users {
		out[id] = u.Public()
	}
	return out, nil
}

func (m *MockUserRepository) Invalidate() {}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	Articles    map[string]*models.ArticleDetail
	QueryFunc   func(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error)
	ReadError   error
	WriteError  error
	Written     []models.ArticleFrontmatter
	Deleted     []string
	Invalidated int
}

var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[string]*models.ArticleDetail),
	}
}

func (m *MockArticleRepository) BuildIndex(ctx context.Context) ([]models.ArticleIndex, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	index := make([]models.ArticleIndex, 0, len(m.Articles))
	for _, a := range m.Articles {
		index = append(index, a.ArticleIndex)
	}
	return index, nil
}

func (m *MockArticleRepository) Query(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, filter)
	}
	index, err := m.BuildIndex(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ArticlePage{Articles: index, Total: len(index), Page: 1, Limit: len(index)}, nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.ArticleDetail, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Articles[slug], nil
}

func (m *MockArticleRepository) Write(ctx context.Context, fm models.ArticleFrontmatter, idBody, enBody string) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	m.Written = append(m.Written, fm)
	m.Articles[fm.Slug] = &models.ArticleDetail{
		ArticleIndex: models.ArticleIndex{ArticleFrontmatter: fm},
		MarkdownID:   idBody,
		MarkdownEN:   enBody,
	}
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, slug string) (bool, error) {
	if m.WriteError != nil {
		return false, m.WriteError
	}
	if _, ok := m.Articles[slug]; !ok {
		return false, nil
	}
	delete(m.Articles, slug)
	m.Deleted = append(m.Deleted, slug)
	return true, nil
}

func (m *MockArticleRepository) Exists(ctx context.Context, slug string) (bool, error) {
	if m.ReadError != nil {
		return false, m.ReadError
	}
	_, ok := m.Articles[slug]
	return ok, nil
}

func (m *MockArticleRepository) Invalidate() {
	m.Invalidated++
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	Stats      map[string]models.ArticleStats
	ReadError  error
	MutateFunc func(slug string) repository.MutationResult[models.ArticleStats]
}

var _ repository.StatsRepository = (*MockStatsRepository)(nil)

func NewMockStatsRepository() *MockStatsRepository {
	return &MockStatsRepository{
		Stats: make(map[string]models.ArticleStats),
	}
}

func (m *MockStatsRepository) Get(ctx context.Context, slug string) (models.ArticleStats, error) {
	if m.ReadError != nil {
		return models.ArticleStats{}, m.ReadError
	}
	st := m.Stats[slug]
	if st.LikedBy == nil {
		st.LikedBy = []string{}
	}
	return st, nil
}

func (m *MockStatsRepository) All(ctx context.Context) (map[string]models.ArticleStats, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Stats, nil
}

func (m *MockStatsRepository) IncrementViews(ctx context.Context, slug string) repository.MutationResult[models.ArticleStats] {
	if m.MutateFunc != nil {
		return m.MutateFunc(slug)
	}
	st := m.Stats[slug]
	st.Views++
	m.Stats[slug] = st
	return repository.MutationResult[models.ArticleStats]{Value: st, Persisted: true}
}

func (m *MockStatsRepository) ToggleLike(ctx context.Context, slug, userID string) repository.MutationResult[models.ArticleStats] {
	if m.MutateFunc != nil {
		return m.MutateFunc(slug)
	}
	st := m.Stats[slug]
	liked := make([]string, 0, len(st.LikedBy)+1)
	found := false
	for _, id := range st.LikedBy {
		if id == userID {
			found = true
			continue
		}
		liked = append(liked, id)
	}
	if !found {
		liked = append(liked, userID)
	}
	st.LikedBy = liked
	st.Likes = len(liked)
	m.Stats[slug] = st
	return repository.MutationResult[models.ArticleStats]{Value: st, Persisted: true}
}

// MockReadingListRepository is a mock implementation of ReadingListRepository
type MockReadingListRepository struct {
	Lists     map[string][]string
	ReadError error
}

var _ repository.ReadingListRepository = (*MockReadingListRepository)(nil)

func NewMockReadingListRepository() *MockReadingListRepository {
	return &MockReadingListRepository{
		Lists: make(map[string][]string),
	}
}

func (m *MockReadingListRepository) Get(ctx context.Context, userID string) ([]string, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return append([]string{}, m.Lists[userID]...), nil
}

func (m *MockReadingListRepository) Toggle(ctx context.Context, userID, slug string) repository.MutationResult[models.ReadingListToggle] {
	list := m.Lists[userID]
	next := make([]string, 0, len(list)+1)
	saved := true
	for _, s := range list {
		if s == slug {
			saved = false
			continue
		}
		next = append(next, s)
	}
	if saved {
		next = append([]string{slug}, next...)
	}
	m.Lists[userID] = next
	return repository.MutationResult[models.ReadingListToggle]{
		Value:     models.ReadingListToggle{Saved: saved, List: append([]string{}, next...)},
		Persisted: true,
	}
}

// NewMockRepositories wires a fresh set of mock repositories
func NewMockRepositories() (*repository.Repositories, *MockUserRepository, *MockArticleRepository, *MockStatsRepository, *MockReadingListRepository) {
	users := NewMockUserRepository()
	articles := NewMockArticleRepository()
	stats := NewMockStatsRepository()
	lists := NewMockReadingListRepository()
	return &repository.Repositories{
		User:        users,
		Article:     articles,
		Stats:       stats,
		ReadingList: lists,
	}, users, articles, stats, lists
}
