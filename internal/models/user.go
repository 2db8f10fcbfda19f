package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает участника сообщества обмена услугами.
// Баллы (points) — внутренняя валюта платформы, не конвертируется в деньги.
type User struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	FirstName         string     `db:"first_name" json:"first_name"`
	LastName          string     `db:"last_name" json:"last_name"`
	Phone             string     `db:"phone" json:"phone"`
	Location          string     `db:"location" json:"location"`
	Avatar            string     `db:"avatar" json:"avatar"`
	Bio               string     `db:"bio" json:"bio"`
	Points            int        `db:"points" json:"points"`
	Rating            float64    `db:"rating" json:"rating"`
	CompletedServices int        `db:"completed_services" json:"completed_services"`
	IsActive          bool       `db:"is_active" json:"is_active"`
	LastLoginAt       *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName возвращает имя для уведомлений.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// PublicProfile описывает публичную часть профиля.
type PublicProfile struct {
	ID                uuid.UUID `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Location          string    `json:"location"`
	Avatar            string    `json:"avatar"`
	Bio               string    `json:"bio"`
	Rating            float64   `json:"rating"`
	CompletedServices int       `json:"completed_services"`
	CreatedAt         time.Time `json:"created_at"`
}

// Public обрезает пользователя до публичного профиля.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:                u.ID,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Location:          u.Location,
		Avatar:            u.Avatar,
		Bio:               u.Bio,
		Rating:            u.Rating,
		CompletedServices: u.CompletedServices,
		CreatedAt:         u.CreatedAt,
	}
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
