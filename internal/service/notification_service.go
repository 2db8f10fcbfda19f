package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dkovalev/skillswap-backend/internal/models"
	"github.com/dkovalev/skillswap-backend/internal/pkg/apperror"
	"github.com/dkovalev/skillswap-backend/internal/repository"
)

// NotificationRepository описывает хранилище уведомлений.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, recipientID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
}

// NotificationService обслуживает ленту уведомлений. Доставка — polling:
// клиент периодически забирает список и счётчик непрочитанных.
type NotificationService struct {
	repo NotificationRepository
}

// NewNotificationService создаёт сервис уведомлений.
func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify записывает уведомление получателю.
func (s *NotificationService) Notify(ctx context.Context, recipientID uuid.UUID, notificationType string, transactionID *uuid.UUID, message string) error {
	notification := &models.Notification{
		RecipientID:   recipientID,
		Type:          notificationType,
		TransactionID: transactionID,
		Message:       message,
	}
	return s.repo.Create(ctx, notification)
}

// List возвращает уведомления получателя, новые первыми.
func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, recipientID, limit, offset, unreadOnly)
}

// CountUnread возвращает число непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

// MarkAsRead помечает уведомление прочитанным. Чужое уведомление трогать нельзя.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return apperror.ErrNotificationNotFound
		}
		return err
	}

	if notification.RecipientID != recipientID {
		return apperror.New(apperror.ErrCodeForbidden, "уведомление принадлежит другому пользователю")
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead помечает все уведомления получателя прочитанными.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}
