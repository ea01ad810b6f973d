package mocks

import (
	"context"

	"github.com/bilingual-blog-api/internal/apperr"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/service"
)

// MockArticleService is a mock implementation of ArticleService
type MockArticleService struct {
	ListFunc   func(ctx context.Context, params *models.ArticleListParams, caller *models.Identity) (*models.ArticlePage, error)
	GetFunc    func(ctx context.Context, slug string, caller *models.Identity) (*models.ArticleDetail, error)
	CreateFunc func(ctx context.Context, in *models.ArticleInput, caller *models.Identity) (string, error)
	UpdateFunc func(ctx context.Context, slug string, in *models.ArticleUpdate, caller *models.Identity) error
	DeleteFunc func(ctx context.Context, slug string, caller *models.Identity) error

	LastCaller *models.Identity
	LastParams *models.ArticleListParams
}

// Verify interface compliance
var _ service.ArticleService = (*MockArticleService)(nil)

func NewMockArticleService() *MockArticleService {
	return &MockArticleService{}
}

func (m *MockArticleService) List(ctx context.Context, params *models.ArticleListParams, caller *models.Identity) (*models.ArticlePage, error) {
	m.LastCaller, m.LastParams = caller, params
	if m.ListFunc != nil {
		return m.ListFunc(ctx, params, caller)
	}
	return &models.ArticlePage{Articles: []models.ArticleIndex{}, Page: 1, Limit: 10}, nil
}

func (m *MockArticleService) Get(ctx context.Context, slug string, caller *models.Identity) (*models.ArticleDetail, error) {
	m.LastCaller = caller
	if m.GetFunc != nil {
		return m.GetFunc(ctx, slug, caller)
	}
	return nil, apperr.NotFound("article not found")
}

func (m *MockArticleService) Create(ctx context.Context, in *models.ArticleInput, caller *models.Identity) (string, error) {
	m.LastCaller = caller
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in, caller)
	}
	return "test-article", nil
}

func (m *MockArticleService) Update(ctx context.Context, slug string, in *models.ArticleUpdate, caller *models.Identity) error {
	m.LastCaller = caller
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, slug, in, caller)
	}
	return nil
}

func (m *MockArticleService) Delete(ctx context.Context, slug string, caller *models.Identity) error {
	m.LastCaller = caller
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, slug, caller)
	}
	return nil
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	RegisterFunc func(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	LoginFunc    func(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	MeFunc       func(ctx context.Context, userID string) (*models.PublicUser, error)
	AuthorsFunc  func(ctx context.Context) ([]models.Author, error)
	AuthorFunc   func(ctx context.Context, id string) (*models.AuthorProfile, error)
}

// Verify interface compliance
var _ service.UserService = (*MockUserService)(nil)

func NewMockUserService() *MockUserService {
	return &MockUserService{}
}

func (m *MockUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &models.User{ID: "usr_test", Username: req.Username, Name: req.Name, Email: req.Email, Role: models.RoleAuthor}, nil
}

func (m *MockUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &models.User{ID: "usr_test", Username: req.Username, Role: models.RoleAuthor}, nil
}

func (m *MockUserService) Me(ctx context.Context, userID string) (*models.PublicUser, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, userID)
	}
	return &models.PublicUser{ID: userID, Role: models.RoleAuthor}, nil
}

func (m *MockUserService) Authors(ctx context.Context) ([]models.Author, error) {
	if m.AuthorsFunc != nil {
		return m.AuthorsFunc(ctx)
	}
	return []models.Author{}, nil
}

func (m *MockUserService) Author(ctx context.Context, id string) (*models.AuthorProfile, error) {
	if m.AuthorFunc != nil {
		return m.AuthorFunc(ctx, id)
	}
	return nil, apperr.NotFound("author not found")
}

// MockStatsService is a mock implementation of StatsService
type MockStatsService struct {
	Stats     map[string]models.ArticleStats
	SiteTotal models.SiteTotals
	Err       error
}

// Verify interface compliance
var _ service.StatsService = (*MockStatsService)(nil)

func NewMockStatsService() *MockStatsService {
	return &MockStatsService{Stats: make(map[string]models.ArticleStats)}
}

func (m *MockStatsService) Get(ctx context.Context, slug string) (models.ArticleStats, error) {
	if m.Err != nil {
		return models.ArticleStats{}, m.Err
	}
	return m.Stats[slug], nil
}

func (m *MockStatsService) IncrementViews(ctx context.Context, slug string) (models.ArticleStats, error) {
	if m.Err != nil {
		return models.ArticleStats{}, m.Err
	}
	st := m.Stats[slug]
	st.Views++
	m.Stats[slug] = st
	return st, nil
}

func (m *MockStatsService) ToggleLike(ctx context.Context, slug, userID string) (models.ArticleStats, error) {
	if m.Err != nil {
		return models.ArticleStats{}, m.Err
	}
	st := m.Stats[slug]
	st.Likes++
	st.LikedBy = append(st.LikedBy, userID)
	m.Stats[slug] = st
	return st, nil
}

func (m *MockStatsService) Totals(ctx context.Context) (*models.SiteTotals, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	totals := m.SiteTotal
	return &totals, nil
}

// MockReadingListService is a mock implementation of ReadingListService
type MockReadingListService struct {
	ToggleFunc func(ctx context.Context, userID, slug string) (*models.ReadingListToggle, error)
	ListFunc   func(ctx context.Context, userID string) ([]models.ArticleIndex, error)
}

// Verify interface compliance
var _ service.ReadingListService = (*MockReadingListService)(nil)

func NewMockReadingListService() *MockReadingListService {
	return &MockReadingListService{}
}

func (m *MockReadingListService) Toggle(ctx context.Context, userID, slug string) (*models.ReadingListToggle, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, userID, slug)
	}
	return &models.ReadingListToggle{Saved: true, List: []string{slug}}, nil
}

func (m *MockReadingListService) List(ctx context.Context, userID string) ([]models.ArticleIndex, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []models.ArticleIndex{}, nil
}

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	UploadFunc func(ctx context.Context, filename, contentType string, data []byte) (*models.UploadResult, error)
	Uploaded   [][]byte
}

// Verify interface compliance
var _ service.UploadService = (*MockUploadService)(nil)

func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) UploadCover(ctx context.Context, filename, contentType string, data []byte) (*models.UploadResult, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, filename, contentType, data)
	}
	m.Uploaded = append(m.Uploaded, data)
	return &models.UploadResult{URL: "memory://raw/covers/test.png", Filename: "test.png"}, nil
}

// NewMockServices wires a fresh set of mock services
func NewMockServices() *service.Services {
	return &service.Services{
		Article:     NewMockArticleService(),
		User:        NewMockUserService(),
		Stats:       NewMockStatsService(),
		ReadingList: NewMockReadingListService(),
		Upload:      NewMockUploadService(),
	}
}
