package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dkovalev/skillswap-backend/internal/domain/valueobject"
	"github.com/dkovalev/skillswap-backend/internal/models"
)

// pqUniqueViolation — код ошибки PostgreSQL о нарушении уникальности.
const pqUniqueViolation = "23505"

// TransactionRepository отвечает за сделки и за атомарный перевод баллов.
// Все многошаговые решения (ответ исполнителя, двойное подтверждение)
// выполняются внутри одной SQL транзакции с блокировкой строки сделки
// через SELECT ... FOR UPDATE: из двух одновременных подтверждений ровно
// одно увидит себя вторым и выполнит перевод.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository создаёт экземпляр репозитория.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create сохраняет новую сделку в статусе pending.
// Частичный уникальный индекс на (service_id, requester_id) по активным
// статусам — последний рубеж против дублей при гонке создания.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (service_id, requester_id, provider_id, points, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, requester_confirmed, provider_confirmed, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		tx.ServiceID,
		tx.RequesterID,
		tx.ProviderID,
		tx.Points,
		tx.Message,
		tx.Status,
	).Scan(&tx.ID, &tx.RequesterConfirmed, &tx.ProviderConfirmed, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateRequest
		}
		return fmt.Errorf("transaction repository: create %w", err)
	}

	return nil
}

// GetByID возвращает сделку по идентификатору.
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.GetContext(ctx, &tx, `SELECT * FROM transactions WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transaction repository: get by id %w", err)
	}
	return &tx, nil
}

// FindActiveByServiceAndRequester ищет незавершённую (pending/accepted) сделку
// пары (услуга, заказчик).
func (r *TransactionRepository) FindActiveByServiceAndRequester(ctx context.Context, serviceID, requesterID uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	query := `
		SELECT * FROM transactions
		WHERE service_id = $1 AND requester_id = $2 AND status IN ('pending', 'accepted')
	`
	if err := r.db.GetContext(ctx, &tx, query, serviceID, requesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transaction repository: find active %w", err)
	}
	return &tx, nil
}

// ListByUser возвращает сделки, где пользователь заказчик или исполнитель,
// от новых к старым, с данными услуги и сторон.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TransactionWithDetails, error) {
	var transactions []models.TransactionWithDetails
	query := `
		SELECT
			t.*,
			s.title    AS service_title,
			s.category AS service_category,
			req.first_name AS requester_first_name,
			req.last_name  AS requester_last_name,
			req.avatar     AS requester_avatar,
			prov.first_name AS provider_first_name,
			prov.last_name  AS provider_last_name,
			prov.avatar     AS provider_avatar
		FROM transactions t
		JOIN services s  ON s.id = t.service_id
		JOIN users req   ON req.id = t.requester_id
		JOIN users prov  ON prov.id = t.provider_id
		WHERE t.requester_id = $1 OR t.provider_id = $1
		ORDER BY t.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &transactions, query, userID); err != nil {
		return nil, fmt.Errorf("transaction repository: list by user %w", err)
	}
	return transactions, nil
}

// Respond атомарно переводит сделку из pending в accepted или refused.
// При принятии заново проверяет живой баланс заказчика: исполнитель не
// должен принять запрос, который заказчик уже не может оплатить.
func (r *TransactionRepository) Respond(ctx context.Context, id, providerID uuid.UUID, accept bool) (*models.Transaction, error) {
	dbTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: respond begin %w", err)
	}
	defer dbTx.Rollback()

	var tx models.Transaction
	if err := dbTx.GetContext(ctx, &tx, `SELECT * FROM transactions WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transaction repository: respond lock %w", err)
	}

	if tx.ProviderID != providerID {
		return nil, ErrNotProvider
	}
	if tx.Status != valueobject.TransactionStatusPending {
		return nil, &InvalidStatusError{Current: tx.Status}
	}

	next := valueobject.TransactionStatusRefused
	if accept {
		var requesterPoints int
		if err := dbTx.GetContext(ctx, &requesterPoints, `SELECT points FROM users WHERE id = $1`, tx.RequesterID); err != nil {
			return nil, fmt.Errorf("transaction repository: respond requester balance %w", err)
		}
		if requesterPoints < tx.Points {
			return nil, &InsufficientFundsError{Have: requesterPoints, Need: tx.Points}
		}
		next = valueobject.TransactionStatusAccepted
	}

	if err := dbTx.GetContext(ctx, &tx, `
		UPDATE transactions SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, next); err != nil {
		return nil, fmt.Errorf("transaction repository: respond update %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction repository: respond commit %w", err)
	}
	return &tx, nil
}

// ConfirmOutcome описывает результат подтверждения выполнения.
type ConfirmOutcome struct {
	Transaction *models.Transaction
	// Transferred — перевод баллов выполнен именно этим вызовом.
	Transferred bool
	// AlreadyCompleted — сделка уже была завершена раньше, вызов идемпотентен.
	AlreadyCompleted  bool
	PointsTransferred int
}

// ConfirmCompletion атомарно фиксирует подтверждение стороны и, если это
// второе подтверждение, выполняет перевод баллов.
//
// Блокировки берутся в порядке: строка сделки, затем строка заказчика.
// Перевод и смена статуса на completed происходят в одной SQL транзакции —
// баллы не двигаются нигде, кроме этого перехода. При нехватке баллов
// транзакция откатывается целиком, и флаг второго подтверждения не
// сохраняется.
func (r *TransactionRepository) ConfirmCompletion(ctx context.Context, id, actorID uuid.UUID) (*ConfirmOutcome, error) {
	dbTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: confirm begin %w", err)
	}
	defer dbTx.Rollback()

	var tx models.Transaction
	if err := dbTx.GetContext(ctx, &tx, `SELECT * FROM transactions WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transaction repository: confirm lock %w", err)
	}

	isRequester := tx.RequesterID == actorID
	isProvider := tx.ProviderID == actorID
	if !isRequester && !isProvider {
		return nil, ErrNotParticipant
	}

	// Проигравший гонку второй подтверждающий видит уже завершённую сделку:
	// это не ошибка и не повторный перевод.
	if tx.Status == valueobject.TransactionStatusCompleted {
		if err := dbTx.Commit(); err != nil {
			return nil, fmt.Errorf("transaction repository: confirm commit %w", err)
		}
		return &ConfirmOutcome{Transaction: &tx, AlreadyCompleted: true}, nil
	}

	if tx.Status != valueobject.TransactionStatusAccepted {
		return nil, &InvalidStatusError{Current: tx.Status}
	}

	if (isRequester && tx.RequesterConfirmed) || (isProvider && tx.ProviderConfirmed) {
		return nil, ErrAlreadyConfirmed
	}

	requesterConfirmed := tx.RequesterConfirmed || isRequester
	providerConfirmed := tx.ProviderConfirmed || isProvider

	if !(requesterConfirmed && providerConfirmed) {
		// Первое подтверждение: сохраняем только флаг, статус не меняется.
		if err := dbTx.GetContext(ctx, &tx, `
			UPDATE transactions
			SET requester_confirmed = $2, provider_confirmed = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		`, id, requesterConfirmed, providerConfirmed); err != nil {
			return nil, fmt.Errorf("transaction repository: confirm set flag %w", err)
		}
		if err := dbTx.Commit(); err != nil {
			return nil, fmt.Errorf("transaction repository: confirm commit %w", err)
		}
		return &ConfirmOutcome{Transaction: &tx}, nil
	}

	// Второе подтверждение: проверяем живой баланс заказчика и переводим.
	var requesterPoints int
	if err := dbTx.GetContext(ctx, &requesterPoints, `SELECT points FROM users WHERE id = $1 FOR UPDATE`, tx.RequesterID); err != nil {
		return nil, fmt.Errorf("transaction repository: confirm requester balance %w", err)
	}
	if requesterPoints < tx.Points {
		return nil, &InsufficientFundsError{Have: requesterPoints, Need: tx.Points}
	}

	if _, err := dbTx.ExecContext(ctx, `
		UPDATE users
		SET points = points - $2, completed_services = completed_services + 1, updated_at = NOW()
		WHERE id = $1
	`, tx.RequesterID, tx.Points); err != nil {
		return nil, fmt.Errorf("transaction repository: confirm debit requester %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `
		UPDATE users
		SET points = points + $2, completed_services = completed_services + 1, updated_at = NOW()
		WHERE id = $1
	`, tx.ProviderID, tx.Points); err != nil {
		return nil, fmt.Errorf("transaction repository: confirm credit provider %w", err)
	}

	if err := dbTx.GetContext(ctx, &tx, `
		UPDATE transactions
		SET requester_confirmed = TRUE, provider_confirmed = TRUE, status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, valueobject.TransactionStatusCompleted); err != nil {
		return nil, fmt.Errorf("transaction repository: confirm complete %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction repository: confirm commit %w", err)
	}

	return &ConfirmOutcome{
		Transaction:       &tx,
		Transferred:       true,
		PointsTransferred: tx.Points,
	}, nil
}
