package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dkovalev/skillswap-backend/internal/models"
)

// ServiceListParams описывает фильтры каталога услуг.
type ServiceListParams struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// ServiceRepository отвечает за каталог услуг.
type ServiceRepository struct {
	db *sqlx.DB
}

// NewServiceRepository создаёт экземпляр репозитория.
func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create сохраняет новую услугу.
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (provider_id, title, description, category, points, location, availability, tags, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		service.ProviderID,
		service.Title,
		service.Description,
		service.Category,
		service.Points,
		service.Location,
		service.Availability,
		service.Tags,
		service.IsAvailable,
	).Scan(&service.ID, &service.CreatedAt, &service.UpdatedAt)
	if err != nil {
		return fmt.Errorf("service repository: create %w", err)
	}

	return nil
}

// GetByID возвращает услугу по идентификатору.
func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := r.db.GetContext(ctx, &service, `SELECT * FROM services WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("service repository: get by id %w", err)
	}
	return &service, nil
}

// GetWithProvider возвращает услугу вместе с краткими данными исполнителя.
func (r *ServiceRepository) GetWithProvider(ctx context.Context, id uuid.UUID) (*models.ServiceWithProvider, error) {
	var service models.ServiceWithProvider
	query := `
		SELECT
			s.*,
			u.first_name AS provider_first_name,
			u.last_name  AS provider_last_name,
			u.avatar     AS provider_avatar,
			u.rating     AS provider_rating,
			u.location   AS provider_location
		FROM services s
		JOIN users u ON u.id = s.provider_id
		WHERE s.id = $1
	`
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("service repository: get with provider %w", err)
	}
	return &service, nil
}

// List возвращает доступные услуги с фильтрацией по категории и поиском.
func (r *ServiceRepository) List(ctx context.Context, params ServiceListParams) ([]models.ServiceWithProvider, error) {
	query := `
		SELECT
			s.*,
			u.first_name AS provider_first_name,
			u.last_name  AS provider_last_name,
			u.avatar     AS provider_avatar,
			u.rating     AS provider_rating,
			u.location   AS provider_location
		FROM services s
		JOIN users u ON u.id = s.provider_id
		WHERE s.is_available = TRUE
	`
	args := []interface{}{}
	argIndex := 1

	if params.Category != "" {
		query += fmt.Sprintf(" AND s.category = $%d", argIndex)
		args = append(args, params.Category)
		argIndex++
	}

	if params.Search != "" {
		query += fmt.Sprintf(" AND (s.title ILIKE $%d OR s.description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	query += " ORDER BY s.created_at DESC"

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, params.Limit)
		argIndex++
	}

	if params.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, params.Offset)
	}

	var services []models.ServiceWithProvider
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, fmt.Errorf("service repository: list %w", err)
	}

	return services, nil
}

// ListByProvider возвращает все услуги исполнителя, включая скрытые.
func (r *ServiceRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Service, error) {
	var services []models.Service
	query := `SELECT * FROM services WHERE provider_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &services, query, providerID); err != nil {
		return nil, fmt.Errorf("service repository: list by provider %w", err)
	}
	return services, nil
}

// Update обновляет услугу. Цена уже созданных сделок не меняется:
// баллы зафиксированы в сделке в момент запроса.
func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	query := `
		UPDATE services
		SET title = $2, description = $3, category = $4, points = $5, location = $6,
		    availability = $7, tags = $8, is_available = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		service.ID,
		service.Title,
		service.Description,
		service.Category,
		service.Points,
		service.Location,
		service.Availability,
		service.Tags,
		service.IsAvailable,
	).Scan(&service.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("service repository: update %w", err)
	}

	return nil
}

// Delete удаляет услугу.
func (r *ServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("service repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("service repository: delete rows affected %w", err)
	}
	if rowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}
