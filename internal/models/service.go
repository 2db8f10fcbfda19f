package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Service описывает предложение услуги за баллы.
type Service struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	ProviderID   uuid.UUID      `db:"provider_id" json:"provider_id"`
	Title        string         `db:"title" json:"title"`
	Description  string         `db:"description" json:"description"`
	Category     string         `db:"category" json:"category"`
	Points       int            `db:"points" json:"points"`
	Location     string         `db:"location" json:"location"`
	Availability string         `db:"availability" json:"availability"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	IsAvailable  bool           `db:"is_available" json:"is_available"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ServiceWithProvider присоединяет краткие данные исполнителя для витрины каталога.
type ServiceWithProvider struct {
	Service
	ProviderFirstName string  `db:"provider_first_name" json:"provider_first_name"`
	ProviderLastName  string  `db:"provider_last_name" json:"provider_last_name"`
	ProviderAvatar    string  `db:"provider_avatar" json:"provider_avatar"`
	ProviderRating    float64 `db:"provider_rating" json:"provider_rating"`
	ProviderLocation  string  `db:"provider_location" json:"provider_location"`
}
