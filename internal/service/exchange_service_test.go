package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dkovalev/skillswap-backend/internal/domain/valueobject"
	"github.com/dkovalev/skillswap-backend/internal/models"
	"github.com/dkovalev/skillswap-backend/internal/pkg/apperror"
	"github.com/dkovalev/skillswap-backend/internal/repository"
)

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) FindActiveByServiceAndRequester(ctx context.Context, serviceID, requesterID uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, serviceID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TransactionWithDetails, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.TransactionWithDetails), args.Error(1)
}

func (m *mockTransactionRepo) Respond(ctx context.Context, id, providerID uuid.UUID, accept bool) (*models.Transaction, error) {
	args := m.Called(ctx, id, providerID, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) ConfirmCompletion(ctx context.Context, id, actorID uuid.UUID) (*repository.ConfirmOutcome, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ConfirmOutcome), args.Error(1)
}

type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockServiceLookup struct {
	mock.Mock
}

func (m *mockServiceLookup) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

type mockNotificationSink struct {
	mock.Mock
}

func (m *mockNotificationSink) Notify(ctx context.Context, recipientID uuid.UUID, notificationType string, transactionID *uuid.UUID, message string) error {
	args := m.Called(ctx, recipientID, notificationType, transactionID, message)
	return args.Error(0)
}

func newExchangeFixture() (*ExchangeService, *mockTransactionRepo, *mockUserReader, *mockServiceLookup, *mockNotificationSink) {
	transactions := new(mockTransactionRepo)
	users := new(mockUserReader)
	services := new(mockServiceLookup)
	notifications := new(mockNotificationSink)
	svc := NewExchangeService(transactions, users, services, notifications)
	return svc, transactions, users, services, notifications
}

func TestExchangeService_RequestService_Success(t *testing.T) {
	svc, transactions, users, services, notifications := newExchangeFixture()
	ctx := context.Background()

	requesterID := uuid.New()
	providerID := uuid.New()
	serviceID := uuid.New()

	services.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: providerID, Title: "Уроки английского", Points: 15,
	}, nil)
	transactions.On("FindActiveByServiceAndRequester", ctx, serviceID, requesterID).
		Return(nil, repository.ErrTransactionNotFound).Once()
	users.On("GetByID", ctx, requesterID).Return(&models.User{
		ID: requesterID, FirstName: "Анна", LastName: "Иванова", Points: 50,
	}, nil)
	transactions.On("Create", ctx, mock.AnythingOfType("*models.Transaction")).
		Run(func(args mock.Arguments) {
			tx := args.Get(1).(*models.Transaction)
			tx.ID = uuid.New()
		}).Return(nil)
	notifications.On("Notify", ctx, providerID, models.NotificationServiceRequest, mock.Anything, mock.Anything).Return(nil)

	tx, err := svc.RequestService(ctx, requesterID, serviceID, "Хочу подтянуть разговорный")
	assert.NoError(t, err)
	assert.Equal(t, valueobject.TransactionStatusPending, tx.Status)
	assert.Equal(t, 15, tx.Points)
	assert.Equal(t, providerID, tx.ProviderID)
	assert.Equal(t, requesterID, tx.RequesterID)
	transactions.AssertExpectations(t)
	notifications.AssertExpectations(t)
}

func TestExchangeService_RequestService_SelfDealing(t *testing.T) {
	svc, _, _, services, _ := newExchangeFixture()
	ctx := context.Background()

	userID := uuid.New()
	serviceID := uuid.New()

	services.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: userID, Points: 10,
	}, nil)

	_, err := svc.RequestService(ctx, userID, serviceID, "")
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeSelfDealing, apperror.CodeOf(err))
}

func TestExchangeService_RequestService_InsufficientPoints(t *testing.T) {
	svc, transactions, users, services, _ := newExchangeFixture()
	ctx := context.Background()

	requesterID := uuid.New()
	serviceID := uuid.New()

	services.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: uuid.New(), Points: 100,
	}, nil)
	transactions.On("FindActiveByServiceAndRequester", ctx, serviceID, requesterID).
		Return(nil, repository.ErrTransactionNotFound)
	users.On("GetByID", ctx, requesterID).Return(&models.User{ID: requesterID, Points: 40}, nil)

	_, err := svc.RequestService(ctx, requesterID, serviceID, "")
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInsufficientFunds, apperror.CodeOf(err))
	// В сообщении есть и баланс, и цена.
	assert.Contains(t, err.Error(), "40")
	assert.Contains(t, err.Error(), "100")
}

func TestExchangeService_RequestService_DuplicateActive(t *testing.T) {
	svc, transactions, _, services, _ := newExchangeFixture()
	ctx := context.Background()

	requesterID := uuid.New()
	serviceID := uuid.New()
	existingID := uuid.New()

	services.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: uuid.New(), Points: 10,
	}, nil)
	transactions.On("FindActiveByServiceAndRequester", ctx, serviceID, requesterID).
		Return(&models.Transaction{ID: existingID, Status: valueobject.TransactionStatusAccepted}, nil)

	_, err := svc.RequestService(ctx, requesterID, serviceID, "")
	assert.Error(t, err)

	var dupErr *DuplicateRequestError
	assert.True(t, errors.As(err, &dupErr))
	assert.Equal(t, existingID, dupErr.ExistingID)
	assert.Equal(t, valueobject.TransactionStatusAccepted, dupErr.ExistingStatus)
}

func TestExchangeService_RequestService_ServiceNotFound(t *testing.T) {
	svc, _, _, services, _ := newExchangeFixture()
	ctx := context.Background()

	serviceID := uuid.New()
	services.On("GetByID", ctx, serviceID).Return(nil, repository.ErrServiceNotFound)

	_, err := svc.RequestService(ctx, uuid.New(), serviceID, "")
	assert.True(t, apperror.IsNotFound(err))
}

func TestExchangeService_Respond_Accept(t *testing.T) {
	svc, transactions, users, services, notifications := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	requesterID := uuid.New()
	providerID := uuid.New()
	serviceID := uuid.New()

	accepted := &models.Transaction{
		ID: transactionID, ServiceID: serviceID, RequesterID: requesterID, ProviderID: providerID,
		Points: 20, Status: valueobject.TransactionStatusAccepted,
	}
	transactions.On("Respond", ctx, transactionID, providerID, true).Return(accepted, nil)
	services.On("GetByID", ctx, serviceID).Return(&models.Service{ID: serviceID, Title: "Ремонт крана"}, nil)
	users.On("GetByID", ctx, providerID).Return(&models.User{ID: providerID, FirstName: "Пётр", LastName: "Волков"}, nil)
	notifications.On("Notify", ctx, requesterID, models.NotificationRequestAccepted, mock.Anything, mock.Anything).Return(nil)

	tx, err := svc.Respond(ctx, transactionID, providerID, RespondAccept)
	assert.NoError(t, err)
	assert.Equal(t, valueobject.TransactionStatusAccepted, tx.Status)
	notifications.AssertExpectations(t)
}

func TestExchangeService_Respond_Refuse(t *testing.T) {
	svc, transactions, users, services, notifications := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	requesterID := uuid.New()
	providerID := uuid.New()
	serviceID := uuid.New()

	refused := &models.Transaction{
		ID: transactionID, ServiceID: serviceID, RequesterID: requesterID, ProviderID: providerID,
		Points: 20, Status: valueobject.TransactionStatusRefused,
	}
	transactions.On("Respond", ctx, transactionID, providerID, false).Return(refused, nil)
	services.On("GetByID", ctx, serviceID).Return(&models.Service{ID: serviceID, Title: "Ремонт крана"}, nil)
	users.On("GetByID", ctx, providerID).Return(&models.User{ID: providerID, FirstName: "Пётр", LastName: "Волков"}, nil)
	notifications.On("Notify", ctx, requesterID, models.NotificationRequestRefused, mock.Anything, mock.Anything).Return(nil)

	tx, err := svc.Respond(ctx, transactionID, providerID, RespondRefuse)
	assert.NoError(t, err)
	assert.Equal(t, valueobject.TransactionStatusRefused, tx.Status)
}

func TestExchangeService_Respond_InvalidAction(t *testing.T) {
	svc, _, _, _, _ := newExchangeFixture()

	_, err := svc.Respond(context.Background(), uuid.New(), uuid.New(), RespondAction("approve"))
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}

func TestExchangeService_Respond_NotProvider(t *testing.T) {
	svc, transactions, _, _, _ := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	actorID := uuid.New()
	transactions.On("Respond", ctx, transactionID, actorID, true).Return(nil, repository.ErrNotProvider)

	_, err := svc.Respond(ctx, transactionID, actorID, RespondAccept)
	assert.True(t, apperror.IsForbidden(err))
}

func TestExchangeService_Respond_InvalidStatus(t *testing.T) {
	svc, transactions, _, _, _ := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	actorID := uuid.New()
	transactions.On("Respond", ctx, transactionID, actorID, false).
		Return(nil, &repository.InvalidStatusError{Current: valueobject.TransactionStatusCompleted})

	_, err := svc.Respond(ctx, transactionID, actorID, RespondRefuse)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
	// Текущий статус присутствует в сообщении.
	assert.Contains(t, err.Error(), string(valueobject.TransactionStatusCompleted))
}

func TestExchangeService_Respond_RequesterBalanceDropped(t *testing.T) {
	svc, transactions, _, _, _ := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	actorID := uuid.New()
	transactions.On("Respond", ctx, transactionID, actorID, true).
		Return(nil, &repository.InsufficientFundsError{Have: 3, Need: 20})

	_, err := svc.Respond(ctx, transactionID, actorID, RespondAccept)
	assert.True(t, apperror.IsInsufficientFunds(err))
	assert.Contains(t, err.Error(), "3")
	assert.Contains(t, err.Error(), "20")
}

func TestExchangeService_Confirm_FirstConfirmation(t *testing.T) {
	svc, transactions, users, services, notifications := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	requesterID := uuid.New()
	providerID := uuid.New()
	serviceID := uuid.New()

	outcome := &repository.ConfirmOutcome{
		Transaction: &models.Transaction{
			ID: transactionID, ServiceID: serviceID, RequesterID: requesterID, ProviderID: providerID,
			Points: 20, Status: valueobject.TransactionStatusAccepted, RequesterConfirmed: true,
		},
	}
	transactions.On("ConfirmCompletion", ctx, transactionID, requesterID).Return(outcome, nil)
	services.On("GetByID", ctx, serviceID).Return(&models.Service{ID: serviceID, Title: "Стрижка"}, nil)
	users.On("GetByID", ctx, requesterID).Return(&models.User{ID: requesterID, FirstName: "Анна", LastName: "Иванова"}, nil)
	notifications.On("Notify", ctx, providerID, models.NotificationServiceCompleted, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.ConfirmCompletion(ctx, transactionID, requesterID)
	assert.NoError(t, err)
	assert.Equal(t, valueobject.TransactionStatusAccepted, result.Status)
	assert.True(t, result.RequesterConfirmed)
	assert.False(t, result.ProviderConfirmed)
	assert.Zero(t, result.PointsTransferred)
	notifications.AssertExpectations(t)
}

func TestExchangeService_Confirm_SecondTransfers(t *testing.T) {
	svc, transactions, users, services, notifications := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	requesterID := uuid.New()
	providerID := uuid.New()
	serviceID := uuid.New()

	outcome := &repository.ConfirmOutcome{
		Transaction: &models.Transaction{
			ID: transactionID, ServiceID: serviceID, RequesterID: requesterID, ProviderID: providerID,
			Points: 20, Status: valueobject.TransactionStatusCompleted,
			RequesterConfirmed: true, ProviderConfirmed: true,
		},
		Transferred:       true,
		PointsTransferred: 20,
	}
	transactions.On("ConfirmCompletion", ctx, transactionID, providerID).Return(outcome, nil)
	services.On("GetByID", ctx, serviceID).Return(&models.Service{ID: serviceID, Title: "Стрижка"}, nil)
	users.On("GetByID", ctx, providerID).Return(&models.User{ID: providerID, FirstName: "Пётр", LastName: "Волков"}, nil)
	notifications.On("Notify", ctx, requesterID, models.NotificationServiceCompleted, mock.Anything, mock.Anything).Return(nil)
	notifications.On("Notify", ctx, providerID, models.NotificationPointsReceived, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.ConfirmCompletion(ctx, transactionID, providerID)
	assert.NoError(t, err)
	assert.Equal(t, valueobject.TransactionStatusCompleted, result.Status)
	assert.True(t, result.RequesterConfirmed)
	assert.True(t, result.ProviderConfirmed)
	assert.Equal(t, 20, result.PointsTransferred)
	notifications.AssertExpectations(t)
}

func TestExchangeService_Confirm_AlreadyCompletedIdempotent(t *testing.T) {
	svc, transactions, _, _, notifications := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	actorID := uuid.New()

	outcome := &repository.ConfirmOutcome{
		Transaction: &models.Transaction{
			ID: transactionID, RequesterID: actorID, ProviderID: uuid.New(),
			Points: 20, Status: valueobject.TransactionStatusCompleted,
			RequesterConfirmed: true, ProviderConfirmed: true,
		},
		AlreadyCompleted: true,
	}
	transactions.On("ConfirmCompletion", ctx, transactionID, actorID).Return(outcome, nil)

	result, err := svc.ConfirmCompletion(ctx, transactionID, actorID)
	assert.NoError(t, err)
	assert.Equal(t, valueobject.TransactionStatusCompleted, result.Status)
	// Повторных уведомлений и перевода нет.
	assert.Zero(t, result.PointsTransferred)
	notifications.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExchangeService_Confirm_AlreadyConfirmed(t *testing.T) {
	svc, transactions, _, _, _ := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	actorID := uuid.New()
	transactions.On("ConfirmCompletion", ctx, transactionID, actorID).Return(nil, repository.ErrAlreadyConfirmed)

	_, err := svc.ConfirmCompletion(ctx, transactionID, actorID)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeAlreadyConfirmed, apperror.CodeOf(err))
}

func TestExchangeService_Confirm_NotParticipant(t *testing.T) {
	svc, transactions, _, _, _ := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	actorID := uuid.New()
	transactions.On("ConfirmCompletion", ctx, transactionID, actorID).Return(nil, repository.ErrNotParticipant)

	_, err := svc.ConfirmCompletion(ctx, transactionID, actorID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestExchangeService_Confirm_PendingRejected(t *testing.T) {
	svc, transactions, _, _, _ := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	actorID := uuid.New()
	transactions.On("ConfirmCompletion", ctx, transactionID, actorID).
		Return(nil, &repository.InvalidStatusError{Current: valueobject.TransactionStatusPending})

	_, err := svc.ConfirmCompletion(ctx, transactionID, actorID)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
	assert.Contains(t, err.Error(), string(valueobject.TransactionStatusPending))
}

func TestExchangeService_Confirm_InsufficientFundsAtCommit(t *testing.T) {
	svc, transactions, _, _, _ := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	actorID := uuid.New()
	transactions.On("ConfirmCompletion", ctx, transactionID, actorID).
		Return(nil, &repository.InsufficientFundsError{Have: 5, Need: 20})

	_, err := svc.ConfirmCompletion(ctx, transactionID, actorID)
	assert.True(t, apperror.IsInsufficientFunds(err))
	assert.Contains(t, err.Error(), "5")
	assert.Contains(t, err.Error(), "20")
}

func TestExchangeService_NotificationFailureDoesNotFailOperation(t *testing.T) {
	svc, transactions, users, services, notifications := newExchangeFixture()
	ctx := context.Background()

	requesterID := uuid.New()
	providerID := uuid.New()
	serviceID := uuid.New()

	services.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: providerID, Title: "Урок музыки", Points: 10,
	}, nil)
	transactions.On("FindActiveByServiceAndRequester", ctx, serviceID, requesterID).
		Return(nil, repository.ErrTransactionNotFound)
	users.On("GetByID", ctx, requesterID).Return(&models.User{ID: requesterID, Points: 50}, nil)
	transactions.On("Create", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)
	notifications.On("Notify", ctx, providerID, models.NotificationServiceRequest, mock.Anything, mock.Anything).
		Return(errors.New("notification store down"))

	tx, err := svc.RequestService(ctx, requesterID, serviceID, "")
	assert.NoError(t, err)
	assert.NotNil(t, tx)
}

func TestExchangeService_GetTransaction_ForbiddenToStranger(t *testing.T) {
	svc, transactions, _, _, _ := newExchangeFixture()
	ctx := context.Background()

	transactionID := uuid.New()
	strangerID := uuid.New()
	transactions.On("GetByID", ctx, transactionID).Return(&models.Transaction{
		ID: transactionID, RequesterID: uuid.New(), ProviderID: uuid.New(),
	}, nil)

	_, err := svc.GetTransaction(ctx, transactionID, strangerID)
	assert.True(t, apperror.IsForbidden(err))
}
