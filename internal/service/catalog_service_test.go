package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dkovalev/skillswap-backend/internal/models"
	"github.com/dkovalev/skillswap-backend/internal/pkg/apperror"
	"github.com/dkovalev/skillswap-backend/internal/repository"
)

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) Create(ctx context.Context, service *models.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *mockCatalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *mockCatalogRepo) GetWithProvider(ctx context.Context, id uuid.UUID) (*models.ServiceWithProvider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceWithProvider), args.Error(1)
}

func (m *mockCatalogRepo) List(ctx context.Context, params repository.ServiceListParams) ([]models.ServiceWithProvider, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceWithProvider), args.Error(1)
}

func (m *mockCatalogRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Service, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *mockCatalogRepo) Update(ctx context.Context, service *models.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *mockCatalogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validCreateInput() CreateServiceInput {
	return CreateServiceInput{
		Title:        "Ремонт смесителя",
		Description:  "Замена картриджа, устранение течи",
		Category:     models.CategoryHomeRepairs,
		Points:       15,
		Location:     "Казань",
		Availability: models.AvailabilityAvailable,
		Tags:         []string{"сантехника"},
	}
}

func TestCatalogService_Create_Success(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)
	providerID := uuid.New()

	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Service")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Service).ID = uuid.New()
		}).Return(nil)

	created, err := svc.Create(context.Background(), providerID, validCreateInput())
	assert.NoError(t, err)
	assert.Equal(t, providerID, created.ProviderID)
	assert.True(t, created.IsAvailable)
	repo.AssertExpectations(t)
}

func TestCatalogService_Create_PointsBelowMinimum(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)

	in := validCreateInput()
	in.Points = models.MinServicePoints - 1

	_, err := svc.Create(context.Background(), uuid.New(), in)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_Create_UnknownCategory(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)

	in := validCreateInput()
	in.Category = "alchemy"

	_, err := svc.Create(context.Background(), uuid.New(), in)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}

func TestCatalogService_Create_EmptyTitle(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)

	in := validCreateInput()
	in.Title = "   "

	_, err := svc.Create(context.Background(), uuid.New(), in)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}

func TestCatalogService_List_RejectsUnknownCategory(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)

	_, err := svc.List(context.Background(), repository.ServiceListParams{Category: "alchemy"})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCatalogService_List_ClampsLimit(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)

	repo.On("List", mock.Anything, mock.MatchedBy(func(p repository.ServiceListParams) bool {
		return p.Limit == 20 && p.Offset == 0
	})).Return([]models.ServiceWithProvider{}, nil)

	_, err := svc.List(context.Background(), repository.ServiceListParams{Limit: 1000, Offset: -5})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCatalogService_Update_OnlyOwner(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)

	serviceID := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()

	repo.On("GetByID", mock.Anything, serviceID).Return(&models.Service{
		ID:         serviceID,
		ProviderID: owner,
	}, nil)

	newTitle := "Новое название"
	_, err := svc.Update(context.Background(), serviceID, stranger, UpdateServiceInput{Title: &newTitle})
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatalogService_Update_PartialFields(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)

	serviceID := uuid.New()
	owner := uuid.New()

	repo.On("GetByID", mock.Anything, serviceID).Return(&models.Service{
		ID:           serviceID,
		ProviderID:   owner,
		Title:        "Стрижка",
		Description:  "Мужская стрижка машинкой",
		Category:     models.CategoryBarber,
		Points:       10,
		Availability: models.AvailabilityAvailable,
	}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.Service")).Return(nil)

	points := 25
	updated, err := svc.Update(context.Background(), serviceID, owner, UpdateServiceInput{Points: &points})
	assert.NoError(t, err)
	assert.Equal(t, 25, updated.Points)
	// Остальные поля не тронуты.
	assert.Equal(t, "Стрижка", updated.Title)
	assert.Equal(t, models.CategoryBarber, updated.Category)
}

func TestCatalogService_Update_ValidatesMergedState(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)

	serviceID := uuid.New()
	owner := uuid.New()

	repo.On("GetByID", mock.Anything, serviceID).Return(&models.Service{
		ID:           serviceID,
		ProviderID:   owner,
		Title:        "Стрижка",
		Description:  "Мужская стрижка машинкой",
		Category:     models.CategoryBarber,
		Points:       10,
		Availability: models.AvailabilityAvailable,
	}, nil)

	points := 2
	_, err := svc.Update(context.Background(), serviceID, owner, UpdateServiceInput{Points: &points})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatalogService_Delete_OnlyOwner(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)

	serviceID := uuid.New()
	repo.On("GetByID", mock.Anything, serviceID).Return(&models.Service{
		ID:         serviceID,
		ProviderID: uuid.New(),
	}, nil)

	err := svc.Delete(context.Background(), serviceID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCatalogService_Get_NotFound(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)

	id := uuid.New()
	repo.On("GetWithProvider", mock.Anything, id).Return(nil, repository.ErrServiceNotFound)

	_, err := svc.Get(context.Background(), id)
	assert.True(t, apperror.IsNotFound(err))
}
