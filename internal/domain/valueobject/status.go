package valueobject

// TransactionStatus — закрытый тип статуса сделки. Переходы только вперёд:
// pending -> accepted|refused|cancelled, accepted -> completed.
// Терминальные статусы не меняются никогда.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusAccepted  TransactionStatus = "accepted"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRefused   TransactionStatus = "refused"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusAccepted, TransactionStatusCompleted,
		TransactionStatusRefused, TransactionStatusCancelled:
		return true
	}
	return false
}

// IsTerminal сообщает, финальный ли это статус.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusRefused, TransactionStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода между статусами.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	transitions := map[TransactionStatus][]TransactionStatus{
		TransactionStatusPending:   {TransactionStatusAccepted, TransactionStatusRefused, TransactionStatusCancelled},
		TransactionStatusAccepted:  {TransactionStatusCompleted},
		TransactionStatusCompleted: {},
		TransactionStatusRefused:   {},
		TransactionStatusCancelled: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == next {
			return true
		}
	}
	return false
}

func (s TransactionStatus) String() string {
	return string(s)
}
