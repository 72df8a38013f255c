package payment

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	paymentColumns = `"paymentId", "orderId", amount, currency, "moduleName", "transactionRef", status, coalesce("createdAt", '')`

	// The unique index on (orderId, moduleName, transactionRef) plus
	// DO NOTHING makes retries of the same gateway callback a no-op; the
	// follow-up select returns whichever row won.
	insertPaymentQuery = `
        INSERT INTO payments ("paymentId", "orderId", amount, currency, "moduleName", "transactionRef", status, "createdAt")
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT ("orderId", "moduleName", "transactionRef") DO NOTHING
    `

	selectPaymentByRefQuery = `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE "orderId" = $1 AND "moduleName" = $2 AND "transactionRef" = $3
    `

	insertDetailsQuery = `
        INSERT INTO payment_details ("orderId", "filePath", note, "createdAt")
        VALUES ($1, $2, $3, $4)
        RETURNING "detailId"
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(p Payment) (Payment, error) {
	_, err := r.db.Exec(insertPaymentQuery,
		p.ID, p.OrderID, p.Amount, p.Currency, p.ModuleName, p.TransactionRef, p.Status, p.CreatedAt)
	if err != nil {
		return Payment{}, err
	}

	row := r.db.QueryRow(selectPaymentByRefQuery, p.OrderID, p.ModuleName, p.TransactionRef)
	return scanPayment(row)
}

func (r *PostgresRepository) ListByOrder(orderID int) ([]Payment, error) {
	rows, err := r.db.Query(`SELECT `+paymentColumns+` FROM payments WHERE "orderId" = $1 ORDER BY "createdAt"`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(id string, status Status) (Payment, error) {
	res, err := r.db.Exec(`UPDATE payments SET status = $2 WHERE "paymentId" = $1`, id, status)
	if err != nil {
		return Payment{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Payment{}, ErrNotFound
	}

	row := r.db.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE "paymentId" = $1`, id)
	return scanPayment(row)
}

func (r *PostgresRepository) SaveDetails(d Details) (Details, error) {
	err := r.db.QueryRow(insertDetailsQuery, d.OrderID, d.FilePath, d.Note, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		return Details{}, err
	}
	return d, nil
}

func (r *PostgresRepository) ListDetails(orderID int) ([]Details, error) {
	rows, err := r.db.Query(`SELECT "detailId", "orderId", "filePath", coalesce(note, ''), coalesce("createdAt", '') FROM payment_details WHERE "orderId" = $1 ORDER BY "detailId"`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]Details, 0)
	for rows.Next() {
		var d Details
		if err := rows.Scan(&d.ID, &d.OrderID, &d.FilePath, &d.Note, &d.CreatedAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Currency, &p.ModuleName, &p.TransactionRef, &p.Status, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	return p, nil
}
