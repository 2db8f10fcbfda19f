package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dkovalev/skillswap-backend/internal/models"
	"github.com/dkovalev/skillswap-backend/internal/pkg/apperror"
	"github.com/dkovalev/skillswap-backend/internal/repository"
)

// CatalogRepository описывает зависимости каталога услуг от хранилища.
type CatalogRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	GetWithProvider(ctx context.Context, id uuid.UUID) (*models.ServiceWithProvider, error)
	List(ctx context.Context, params repository.ServiceListParams) ([]models.ServiceWithProvider, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogService управляет каталогом предлагаемых услуг.
type CatalogService struct {
	repo CatalogRepository
}

// NewCatalogService создаёт сервис каталога.
func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// CreateServiceInput содержит данные новой услуги.
type CreateServiceInput struct {
	Title        string
	Description  string
	Category     string
	Points       int
	Location     string
	Availability string
	Tags         []string
}

// UpdateServiceInput содержит изменяемые поля услуги. nil — поле не трогаем.
type UpdateServiceInput struct {
	Title        *string
	Description  *string
	Category     *string
	Points       *int
	Location     *string
	Availability *string
	Tags         []string
	IsAvailable  *bool
}

// Create публикует услугу от имени поставщика.
func (s *CatalogService) Create(ctx context.Context, providerID uuid.UUID, in CreateServiceInput) (*models.Service, error) {
	if err := validateServiceFields(in.Title, in.Description, in.Category, in.Points, in.Availability); err != nil {
		return nil, err
	}

	svc := &models.Service{
		ProviderID:   providerID,
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Category:     in.Category,
		Points:       in.Points,
		Location:     strings.TrimSpace(in.Location),
		Availability: in.Availability,
		Tags:         in.Tags,
		IsAvailable:  true,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}

	return svc, nil
}

// Get возвращает услугу вместе с данными поставщика.
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.ServiceWithProvider, error) {
	svc, err := s.repo.GetWithProvider(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, apperror.ErrServiceNotFound
		}
		return nil, err
	}
	return svc, nil
}

// List возвращает доступные услуги каталога с фильтрацией.
func (s *CatalogService) List(ctx context.Context, params repository.ServiceListParams) ([]models.ServiceWithProvider, error) {
	if params.Category != "" {
		if _, ok := models.ValidCategories[params.Category]; !ok {
			return nil, apperror.Newf(apperror.ErrCodeValidation, "неизвестная категория %q", params.Category)
		}
	}
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return s.repo.List(ctx, params)
}

// ListByProvider возвращает услуги конкретного поставщика.
func (s *CatalogService) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Service, error) {
	return s.repo.ListByProvider(ctx, providerID)
}

// Update изменяет услугу. Разрешено только владельцу.
func (s *CatalogService) Update(ctx context.Context, id, actorID uuid.UUID, in UpdateServiceInput) (*models.Service, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, apperror.ErrServiceNotFound
		}
		return nil, err
	}

	if svc.ProviderID != actorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "изменять услугу может только её владелец")
	}

	if in.Title != nil {
		svc.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		svc.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		svc.Category = *in.Category
	}
	if in.Points != nil {
		svc.Points = *in.Points
	}
	if in.Location != nil {
		svc.Location = strings.TrimSpace(*in.Location)
	}
	if in.Availability != nil {
		svc.Availability = *in.Availability
	}
	if in.Tags != nil {
		svc.Tags = in.Tags
	}
	if in.IsAvailable != nil {
		svc.IsAvailable = *in.IsAvailable
	}

	if err := validateServiceFields(svc.Title, svc.Description, svc.Category, svc.Points, svc.Availability); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}

	return svc, nil
}

// Delete удаляет услугу. Разрешено только владельцу. Активные сделки по
// услуге продолжают жить: цена в них зафиксирована при создании запроса.
func (s *CatalogService) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return apperror.ErrServiceNotFound
		}
		return err
	}

	if svc.ProviderID != actorID {
		return apperror.New(apperror.ErrCodeForbidden, "удалять услугу может только её владелец")
	}

	return s.repo.Delete(ctx, id)
}

func validateServiceFields(title, description, category string, points int, availability string) error {
	if strings.TrimSpace(title) == "" {
		return apperror.New(apperror.ErrCodeValidation, "название услуги обязательно")
	}
	if strings.TrimSpace(description) == "" {
		return apperror.New(apperror.ErrCodeValidation, "описание услуги обязательно")
	}
	if _, ok := models.ValidCategories[category]; !ok {
		return apperror.Newf(apperror.ErrCodeValidation, "неизвестная категория %q", category)
	}
	if points < models.MinServicePoints {
		return apperror.Newf(apperror.ErrCodeValidation, "цена услуги не может быть меньше %d баллов", models.MinServicePoints)
	}
	if availability != "" {
		if _, ok := models.ValidAvailabilities[availability]; !ok {
			return apperror.Newf(apperror.ErrCodeValidation, "недопустимое значение доступности %q", availability)
		}
	}
	return nil
}
