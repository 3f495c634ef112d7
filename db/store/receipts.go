package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const receiptColumns = `id, user_id, image_url, ocr_data, processed_at, transaction_id, created_at, updated_at`

func scanReceipt(row pgx.Row) (Receipt, error) {
	var r Receipt
	var id, userID, transactionID pgtype.UUID
	var processedAt pgtype.Timestamp
	if err := row.Scan(&id, &userID, &r.ImageURL, &r.OCRData, &processedAt, &transactionID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Receipt{}, err
	}
	r.ID = uuid.UUID(id.Bytes)
	r.UserID = uuid.UUID(userID.Bytes)
	r.ProcessedAt = timestampPtr(processedAt)
	r.TransactionID = uuidPtr(transactionID)
	return r, nil
}

type CreateReceiptParams struct {
	UserID   uuid.UUID
	ImageURL string
}

func (q *Queries) CreateReceipt(ctx context.Context, arg CreateReceiptParams) (Receipt, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO receipts (user_id, image_url)
		VALUES ($1, $2)
		RETURNING `+receiptColumns,
		pgUUID(arg.UserID), arg.ImageURL,
	)
	return scanReceipt(row)
}

type GetReceiptParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetReceipt(ctx context.Context, arg GetReceiptParams) (Receipt, error) {
	row := q.db.QueryRow(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = $1 AND user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID))
	return scanReceipt(row)
}

func (q *Queries) ListReceipts(ctx context.Context, userID uuid.UUID) ([]Receipt, error) {
	rows, err := q.db.Query(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE user_id = $1 ORDER BY created_at DESC`,
		pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := make([]Receipt, 0)
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

type UpdateReceiptOCRParams struct {
	ID          uuid.UUID
	OCRData     []byte
	ProcessedAt time.Time
}

func (q *Queries) UpdateReceiptOCR(ctx context.Context, arg UpdateReceiptOCRParams) (Receipt, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE receipts SET ocr_data = $2, processed_at = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING `+receiptColumns,
		pgUUID(arg.ID), arg.OCRData, pgtype.Timestamp{Time: arg.ProcessedAt, Valid: true},
	)
	return scanReceipt(row)
}

type LinkReceiptTransactionParams struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
}

func (q *Queries) LinkReceiptTransaction(ctx context.Context, arg LinkReceiptTransactionParams) (Receipt, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE receipts SET transaction_id = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING `+receiptColumns,
		pgUUID(arg.ID), pgUUID(arg.TransactionID),
	)
	return scanReceipt(row)
}

type DeleteReceiptParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteReceipt(ctx context.Context, arg DeleteReceiptParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM receipts WHERE id = $1 AND user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
