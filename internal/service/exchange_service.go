package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkovalev/skillswap-backend/internal/domain/valueobject"
	"github.com/dkovalev/skillswap-backend/internal/logger"
	"github.com/dkovalev/skillswap-backend/internal/models"
	"github.com/dkovalev/skillswap-backend/internal/pkg/apperror"
	"github.com/dkovalev/skillswap-backend/internal/repository"
)

// TransactionRepository описывает взаимодействие движка со хранилищем сделок.
// Respond и ConfirmCompletion обязаны быть атомарными на уровне хранилища:
// решение «я второй подтверждающий» и перевод баллов линеаризуются там.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindActiveByServiceAndRequester(ctx context.Context, serviceID, requesterID uuid.UUID) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TransactionWithDetails, error)
	Respond(ctx context.Context, id, providerID uuid.UUID, accept bool) (*models.Transaction, error)
	ConfirmCompletion(ctx context.Context, id, actorID uuid.UUID) (*repository.ConfirmOutcome, error)
}

// UserReader описывает минимальный контракт получения пользователей.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceLookup описывает чтение услуги для фиксации цены при создании запроса.
type ServiceLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

// NotificationSink принимает уведомления сторон. Отправка fire-and-forget:
// ошибка записи уведомления никогда не откатывает зафиксированный переход
// статуса или перевод баллов.
type NotificationSink interface {
	Notify(ctx context.Context, recipientID uuid.UUID, notificationType string, transactionID *uuid.UUID, message string) error
}

// ExchangeService — движок расчётов: правила переходов статусов сделки,
// двойное подтверждение и перевод баллов между участниками.
type ExchangeService struct {
	transactions  TransactionRepository
	users         UserReader
	services      ServiceLookup
	notifications NotificationSink
}

// NewExchangeService создаёт движок расчётов.
func NewExchangeService(transactions TransactionRepository, users UserReader, services ServiceLookup, notifications NotificationSink) *ExchangeService {
	return &ExchangeService{
		transactions:  transactions,
		users:         users,
		services:      services,
		notifications: notifications,
	}
}

// DuplicateRequestError возвращается при повторном запросе услуги, пока
// существует активная сделка той же пары (услуга, заказчик).
type DuplicateRequestError struct {
	ExistingID     uuid.UUID
	ExistingStatus valueobject.TransactionStatus
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("у вас уже есть активный запрос на эту услугу (сделка %s в статусе %q)", e.ExistingID, e.ExistingStatus)
}

// RespondAction действие исполнителя по запросу.
type RespondAction string

const (
	RespondAccept RespondAction = "accept"
	RespondRefuse RespondAction = "refuse"
)

// ConfirmResult описывает итог подтверждения для клиента: статус и оба флага,
// из которых клиент выводит «ждём другую сторону» или «ваша очередь».
type ConfirmResult struct {
	Status             valueobject.TransactionStatus `json:"status"`
	RequesterConfirmed bool                          `json:"requester_confirmed"`
	ProviderConfirmed  bool                          `json:"provider_confirmed"`
	PointsTransferred  int                           `json:"points_transferred,omitempty"`
}

// RequestService создаёт запрос услуги: сделку в статусе pending с ценой,
// зафиксированной из услуги на момент запроса.
func (s *ExchangeService) RequestService(ctx context.Context, requesterID, serviceID uuid.UUID, message string) (*models.Transaction, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, apperror.ErrServiceNotFound
		}
		return nil, err
	}

	if svc.ProviderID == requesterID {
		return nil, apperror.New(apperror.ErrCodeSelfDealing, "нельзя запросить собственную услугу")
	}

	existing, err := s.transactions.FindActiveByServiceAndRequester(ctx, serviceID, requesterID)
	if err == nil {
		return nil, &DuplicateRequestError{ExistingID: existing.ID, ExistingStatus: existing.Status}
	}
	if !errors.Is(err, repository.ErrTransactionNotFound) {
		return nil, err
	}

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	if requester.Points < svc.Points {
		return nil, apperror.Newf(apperror.ErrCodeInsufficientFunds,
			"недостаточно баллов: на балансе %d, услуга стоит %d", requester.Points, svc.Points)
	}

	tx := &models.Transaction{
		ServiceID:   serviceID,
		RequesterID: requesterID,
		ProviderID:  svc.ProviderID,
		Points:      svc.Points,
		Message:     message,
		Status:      valueobject.TransactionStatusPending,
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		if errors.Is(err, repository.ErrDuplicateRequest) {
			// Гонка создания: индекс в базе отловил дубль, перечитываем его.
			if existing, findErr := s.transactions.FindActiveByServiceAndRequester(ctx, serviceID, requesterID); findErr == nil {
				return nil, &DuplicateRequestError{ExistingID: existing.ID, ExistingStatus: existing.Status}
			}
			return nil, apperror.New(apperror.ErrCodeDuplicateRequest, "у вас уже есть активный запрос на эту услугу")
		}
		return nil, err
	}

	s.notify(ctx, tx.ProviderID, models.NotificationServiceRequest, &tx.ID,
		fmt.Sprintf("%s запрашивает вашу услугу «%s» за %d баллов.", requester.FullName(), svc.Title, svc.Points))

	return tx, nil
}

// Respond обрабатывает ответ исполнителя: accept или refuse запроса в pending.
func (s *ExchangeService) Respond(ctx context.Context, transactionID, actorID uuid.UUID, action RespondAction) (*models.Transaction, error) {
	if action != RespondAccept && action != RespondRefuse {
		return nil, apperror.New(apperror.ErrCodeValidation, "действие должно быть accept или refuse")
	}

	tx, err := s.transactions.Respond(ctx, transactionID, actorID, action == RespondAccept)
	if err != nil {
		return nil, s.mapRespondError(err)
	}

	svc, svcErr := s.services.GetByID(ctx, tx.ServiceID)
	provider, provErr := s.users.GetByID(ctx, tx.ProviderID)

	serviceTitle := "услуга"
	if svcErr == nil {
		serviceTitle = svc.Title
	}
	providerName := "Исполнитель"
	if provErr == nil {
		providerName = provider.FullName()
	}

	if tx.Status == valueobject.TransactionStatusAccepted {
		s.notify(ctx, tx.RequesterID, models.NotificationRequestAccepted, &tx.ID,
			fmt.Sprintf("%s принял ваш запрос на «%s». Работа скоро начнётся!", providerName, serviceTitle))
	} else {
		s.notify(ctx, tx.RequesterID, models.NotificationRequestRefused, &tx.ID,
			fmt.Sprintf("%s отклонил ваш запрос на «%s».", providerName, serviceTitle))
	}

	return tx, nil
}

// ConfirmCompletion фиксирует подтверждение выполнения стороной сделки.
// Когда подтверждение второе, хранилище атомарно переводит баллы; здесь
// остаётся только перевести исход в ответ клиенту и разослать уведомления.
func (s *ExchangeService) ConfirmCompletion(ctx context.Context, transactionID, actorID uuid.UUID) (*ConfirmResult, error) {
	outcome, err := s.transactions.ConfirmCompletion(ctx, transactionID, actorID)
	if err != nil {
		return nil, s.mapConfirmError(err)
	}

	tx := outcome.Transaction
	result := &ConfirmResult{
		Status:             tx.Status,
		RequesterConfirmed: tx.RequesterConfirmed,
		ProviderConfirmed:  tx.ProviderConfirmed,
		PointsTransferred:  outcome.PointsTransferred,
	}

	if outcome.AlreadyCompleted {
		// Повторный вызов по завершённой сделке: идемпотентный no-op.
		return result, nil
	}

	serviceTitle := "услуга"
	if svc, err := s.services.GetByID(ctx, tx.ServiceID); err == nil {
		serviceTitle = svc.Title
	}

	if outcome.Transferred {
		providerName := "исполнителю"
		if provider, err := s.users.GetByID(ctx, tx.ProviderID); err == nil {
			providerName = provider.FullName()
		}
		s.notify(ctx, tx.RequesterID, models.NotificationServiceCompleted, &tx.ID,
			fmt.Sprintf("Услуга «%s» завершена! %d баллов переведены %s.", serviceTitle, outcome.PointsTransferred, providerName))
		s.notify(ctx, tx.ProviderID, models.NotificationPointsReceived, &tx.ID,
			fmt.Sprintf("Вы получили %d баллов за выполнение «%s»!", outcome.PointsTransferred, serviceTitle))
		return result, nil
	}

	// Первое подтверждение: зовём вторую сторону.
	otherParty := tx.ProviderID
	if actorID == tx.ProviderID {
		otherParty = tx.RequesterID
	}
	confirmerName := "Другая сторона"
	if confirmer, err := s.users.GetByID(ctx, actorID); err == nil {
		confirmerName = confirmer.FullName()
	}
	s.notify(ctx, otherParty, models.NotificationServiceCompleted, &tx.ID,
		fmt.Sprintf("%s подтвердил выполнение «%s». Подтвердите со своей стороны, чтобы завершить сделку.", confirmerName, serviceTitle))

	return result, nil
}

// ListMyTransactions возвращает сделки пользователя в обеих ролях.
func (s *ExchangeService) ListMyTransactions(ctx context.Context, userID uuid.UUID) ([]models.TransactionWithDetails, error) {
	return s.transactions.ListByUser(ctx, userID)
}

// GetTransaction возвращает сделку, доступную только её сторонам.
func (s *ExchangeService) GetTransaction(ctx context.Context, transactionID, actorID uuid.UUID) (*models.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}

	if !tx.IsParty(actorID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "вы не являетесь стороной этой сделки")
	}

	return tx, nil
}

// mapRespondError переводит ошибки хранилища в apperror для клиента.
func (s *ExchangeService) mapRespondError(err error) error {
	var statusErr *repository.InvalidStatusError
	var fundsErr *repository.InsufficientFundsError

	switch {
	case errors.Is(err, repository.ErrTransactionNotFound):
		return apperror.ErrTransactionNotFound
	case errors.Is(err, repository.ErrNotProvider):
		return apperror.New(apperror.ErrCodeForbidden, "ответить на запрос может только исполнитель услуги")
	case errors.As(err, &statusErr):
		return apperror.Newf(apperror.ErrCodeInvalidState,
			"нельзя ответить на сделку в статусе %q — ответ возможен только в статусе %q",
			statusErr.Current, valueobject.TransactionStatusPending)
	case errors.As(err, &fundsErr):
		return apperror.Newf(apperror.ErrCodeInsufficientFunds,
			"у заказчика больше нет достаточного количества баллов: на балансе %d, требуется %d",
			fundsErr.Have, fundsErr.Need)
	}
	return err
}

// mapConfirmError переводит ошибки подтверждения в apperror для клиента.
func (s *ExchangeService) mapConfirmError(err error) error {
	var statusErr *repository.InvalidStatusError
	var fundsErr *repository.InsufficientFundsError

	switch {
	case errors.Is(err, repository.ErrTransactionNotFound):
		return apperror.ErrTransactionNotFound
	case errors.Is(err, repository.ErrNotParticipant):
		return apperror.New(apperror.ErrCodeForbidden, "вы не являетесь стороной этой сделки")
	case errors.Is(err, repository.ErrAlreadyConfirmed):
		return apperror.New(apperror.ErrCodeAlreadyConfirmed, "вы уже подтвердили выполнение этой сделки")
	case errors.As(err, &statusErr):
		return apperror.Newf(apperror.ErrCodeInvalidState,
			"нельзя подтвердить сделку в статусе %q — сначала она должна быть принята исполнителем",
			statusErr.Current)
	case errors.As(err, &fundsErr):
		return apperror.Newf(apperror.ErrCodeInsufficientFunds,
			"у заказчика недостаточно баллов для перевода: на балансе %d, требуется %d",
			fundsErr.Have, fundsErr.Need)
	}
	return err
}

// notify шлёт уведомление и логирует неудачу, не прерывая операцию.
func (s *ExchangeService) notify(ctx context.Context, recipientID uuid.UUID, notificationType string, transactionID *uuid.UUID, message string) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Notify(ctx, recipientID, notificationType, transactionID, message); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"recipient_id": recipientID,
				"type":         notificationType,
				"error":        err.Error(),
			}).Warn("exchange service: не удалось отправить уведомление")
		}
	}
}
