package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dkovalev/skillswap-backend/internal/domain/valueobject"
)

// Transaction описывает запрос услуги одним участником у другого.
// Поля service/requester/provider/points/message неизменяемы после создания:
// цена фиксируется в момент запроса и защищает обе стороны от смены
// стоимости услуги.
type Transaction struct {
	ID                 uuid.UUID                     `db:"id" json:"id"`
	ServiceID          uuid.UUID                     `db:"service_id" json:"service_id"`
	RequesterID        uuid.UUID                     `db:"requester_id" json:"requester_id"`
	ProviderID         uuid.UUID                     `db:"provider_id" json:"provider_id"`
	Points             int                           `db:"points" json:"points"`
	Message            string                        `db:"message" json:"message"`
	Status             valueobject.TransactionStatus `db:"status" json:"status"`
	RequesterConfirmed bool                          `db:"requester_confirmed" json:"requester_confirmed"`
	ProviderConfirmed  bool                          `db:"provider_confirmed" json:"provider_confirmed"`
	CreatedAt          time.Time                     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time                     `db:"updated_at" json:"updated_at"`
}

// IsParty сообщает, является ли пользователь стороной сделки.
func (t *Transaction) IsParty(userID uuid.UUID) bool {
	return t.RequesterID == userID || t.ProviderID == userID
}

// BothConfirmed сообщает, подтвердили ли выполнение обе стороны.
func (t *Transaction) BothConfirmed() bool {
	return t.RequesterConfirmed && t.ProviderConfirmed
}

// TransactionWithDetails присоединяет данные услуги и сторон для выдачи клиенту.
type TransactionWithDetails struct {
	Transaction
	ServiceTitle       string `db:"service_title" json:"service_title"`
	ServiceCategory    string `db:"service_category" json:"service_category"`
	RequesterFirstName string `db:"requester_first_name" json:"requester_first_name"`
	RequesterLastName  string `db:"requester_last_name" json:"requester_last_name"`
	RequesterAvatar    string `db:"requester_avatar" json:"requester_avatar"`
	ProviderFirstName  string `db:"provider_first_name" json:"provider_first_name"`
	ProviderLastName   string `db:"provider_last_name" json:"provider_last_name"`
	ProviderAvatar     string `db:"provider_avatar" json:"provider_avatar"`
}
