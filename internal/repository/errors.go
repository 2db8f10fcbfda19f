package repository

import (
	"errors"
	"fmt"

	"github.com/dkovalev/skillswap-backend/internal/domain/valueobject"
)

// Ошибки уровня хранилища. Бизнес-слой переводит их в apperror с
// сообщением для клиента.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrSessionNotFound      = errors.New("session not found")
	ErrNotParticipant       = errors.New("user is not a party to the transaction")
	ErrNotProvider          = errors.New("user is not the provider of the transaction")
	ErrAlreadyConfirmed     = errors.New("party has already confirmed completion")
	ErrDuplicateRequest     = errors.New("active request for the service already exists")
)

// InvalidStatusError возвращается при попытке действия из статуса,
// который его не допускает. Текущий статус нужен вызывающему для
// понятного сообщения клиенту.
type InvalidStatusError struct {
	Current valueobject.TransactionStatus
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid transaction status %q", e.Current)
}

// InsufficientFundsError возвращается при нехватке баллов у заказчика.
type InsufficientFundsError struct {
	Have int
	Need int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %d points, need %d", e.Have, e.Need)
}
