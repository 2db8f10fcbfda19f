package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification описывает персональное уведомление участника.
// Доставка — polling со стороны клиента, записи просто лежат в базе.
type Notification struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	RecipientID   uuid.UUID  `db:"recipient_id" json:"recipient_id"`
	Type          string     `db:"type" json:"type"`
	TransactionID *uuid.UUID `db:"transaction_id" json:"transaction_id,omitempty"`
	Message       string     `db:"message" json:"message"`
	IsRead        bool       `db:"is_read" json:"is_read"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
