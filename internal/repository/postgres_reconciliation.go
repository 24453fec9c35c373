package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
)

type PostgresReconciliationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReconciliationRepository(db *pgxpool.Pool) *PostgresReconciliationRepository {
	return &PostgresReconciliationRepository{
		db: db,
	}
}

// Record inserts a captured-but-not-ticketed payment. Inserts are idempotent
// on the payment reference so a repeated capture callback cannot journal the
// same charge twice.
func (p *PostgresReconciliationRepository) Record(ctx context.Context, entry *domain.ReconciliationEntry) error {
	query := `
		INSERT INTO reconciliation_entries (
			payment_reference_id,
			trip_id,
			payer_id,
			seat_number,
			amount,
			cause
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		entry.PaymentReferenceID,
		entry.TripID,
		entry.PayerID,
		entry.SeatNumber,
		entry.Amount,
		entry.Cause,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrAlreadyRecorded
		}

		return err
	}

	return nil
}

func (p *PostgresReconciliationRepository) GetByPaymentReference(
	ctx context.Context,
	paymentReferenceID string) (*domain.ReconciliationEntry, error) {

	query := `
		SELECT id, payment_reference_id, trip_id, payer_id, seat_number, amount, cause, resolved, created_at
		FROM reconciliation_entries
		WHERE payment_reference_id = $1
	`

	var entry domain.ReconciliationEntry

	err := p.db.QueryRow(ctx, query, paymentReferenceID).Scan(
		&entry.ID,
		&entry.PaymentReferenceID,
		&entry.TripID,
		&entry.PayerID,
		&entry.SeatNumber,
		&entry.Amount,
		&entry.Cause,
		&entry.Resolved,
		&entry.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &entry, nil
}
